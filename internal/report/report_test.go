package report

import (
	"testing"

	"tafrigh/internal/attribution"
	"tafrigh/internal/services/ner"
)

func TestComposeByteExact(t *testing.T) {
	speakers := attribution.NewSpeakerMap()
	speakers.Append("SPEAKER_00", "مرحبا بكم في الحلقة")
	speakers.Append("SPEAKER_01", "شكرا على الاستضافة")

	entities := []ner.Entity{
		{Value: "بيروت", Type: "LOC"},
		{Value: "محمد", Type: "PERS"},
	}

	transcript := "[0.00 - 2.50] مرحبا بكم في الحلقة\n[2.50 - 4.00] شكرا على الاستضافة\n"
	summary := "🔹 أهم النقاط:\n• نقطة أولى\n• نقطة ثانية"

	got := Compose("حلقة تجريبية", transcript, speakers, entities, summary)

	want := "العنوان: حلقة تجريبية\n\n" +
		"النص الكامل:\n" +
		transcript + "\n\n" +
		"النص حسب المتحدث:\n" +
		"SPEAKER_00:\nمرحبا بكم في الحلقة\n\nSPEAKER_01:\nشكرا على الاستضافة" + "\n\n" +
		"الكيانات المستخرجة:\n" +
		"LOC : بيروت\nPERS : محمد\n" +
		"\nالملخص:\n" +
		summary

	if got != want {
		t.Fatalf("report mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestComposeDeterministic(t *testing.T) {
	speakers := attribution.NewSpeakerMap()
	speakers.Append("S0", "a")

	first := Compose("t", "x", speakers, nil, "s")
	second := Compose("t", "x", speakers, nil, "s")
	if first != second {
		t.Fatal("compose is not deterministic")
	}
}

func TestRenderEntitiesEmpty(t *testing.T) {
	if got := RenderEntities(nil); got != "" {
		t.Fatalf("RenderEntities(nil) = %q", got)
	}
}

func TestRenderSpeakersInsertionOrder(t *testing.T) {
	speakers := attribution.NewSpeakerMap()
	speakers.Append("S1", "later label first")
	speakers.Append("S0", "second")

	want := "S1:\nlater label first\n\nS0:\nsecond"
	if got := RenderSpeakers(speakers); got != want {
		t.Fatalf("RenderSpeakers = %q, want %q", got, want)
	}
}
