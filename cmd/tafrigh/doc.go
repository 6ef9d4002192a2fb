// Command tafrigh drives the Arabic podcast pipeline: fetch episode audio,
// transcribe it, split it by speaker, extract entities, summarize, and
// compose the final report. Individual stages are also exposed as
// subcommands for working with files directly.
package main
