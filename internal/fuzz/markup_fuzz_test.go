package fuzztests

import (
	"testing"
	"time"

	"docket/internal/markup"
)

const parseTimeout = 5 * time.Second

func FuzzMarkupParse(f *testing.F) {
	for _, s := range markupSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f, "markup", ".rdoc")
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		done := make(chan *markup.Document, 1)
		go func() {
			done <- markup.Parse(markup.StripComment(string(input)))
		}()
		select {
		case doc := <-done:
			// повторный разбор выведенного текста не должен падать
			_ = markup.Parse(doc.Text())
			_ = doc.Summary()
		case <-time.After(parseTimeout):
			t.Fatalf("markup parse hung on %d bytes", len(input))
		}
	})
}

func FuzzParseInline(f *testing.F) {
	for _, s := range markupSeeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, input string) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		spans := markup.ParseInline(input)
		if input == "" && spans != nil {
			t.Fatalf("spans for empty input: %#v", spans)
		}
		_ = markup.SpansText(spans)
	})
}
