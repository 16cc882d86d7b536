package unit

import (
	"errors"
	"strings"
	"testing"
)

func TestReaderSkipsBlankAndCommentLines(t *testing.T) {
	src := "# header\n\n{\"kind\":\"module\",\"name\":\"A\"}\n   \n{\"kind\":\"class\",\"name\":\"B\"}"
	rd := NewReader[Record](strings.NewReader(src), nil)
	recs, err := rd.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(recs) != 2 || recs[0].Name != "A" || recs[1].Name != "B" {
		t.Fatalf("unexpected records: %+v", recs)
	}
	if rd.Line() != 5 {
		t.Fatalf("Line() = %d, want 5", rd.Line())
	}
}

func TestReaderContinuesAfterBadLine(t *testing.T) {
	src := "{\"kind\":\"module\",\"name\":\"A\"}\n{not json\n{\"kind\":\"module\",\"name\":\"C\"}\n"
	rd := NewReader[Record](strings.NewReader(src), nil)

	if _, ok, err := rd.Next(); !ok || err != nil {
		t.Fatalf("first record: ok=%v err=%v", ok, err)
	}
	_, ok, err := rd.Next()
	var lerr *LineError
	if ok || !errors.As(err, &lerr) {
		t.Fatalf("expected LineError, got ok=%v err=%v", ok, err)
	}
	if lerr.Line != 2 {
		t.Fatalf("LineError.Line = %d, want 2", lerr.Line)
	}
	rec, ok, err := rd.Next()
	if !ok || err != nil || rec.Name != "C" {
		t.Fatalf("third record: %+v ok=%v err=%v", rec, ok, err)
	}
	if _, ok, err := rd.Next(); ok || err != nil {
		t.Fatalf("expected EOF, got ok=%v err=%v", ok, err)
	}
}

func TestReaderCustomDecoder(t *testing.T) {
	rd := NewReader(strings.NewReader("a\nbb\n"), func(b []byte) (int, error) { return len(b), nil })
	got, err := rd.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected values %v", got)
	}
}
