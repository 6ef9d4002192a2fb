// Package ytdlp acquires episode audio with yt-dlp. Acquisition is two
// invocations: a metadata probe (no download) that names the episode, then
// an audio extraction into the configured format. An episode whose audio
// already exists is skipped, never overwritten.
package ytdlp
