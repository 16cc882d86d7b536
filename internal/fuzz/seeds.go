package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 256 << 10
)

var markupSeeds = []string{
	"",
	"= Title\n\nBody text with *bold* and _it_.",
	"* one\n  continued\n* two\n\n    code\n* three",
	"- outer\n  - inner\n- second",
	"[cat] small\n[dog] large\n\nname:: value",
	"> quoted\n> more",
	"{the docs}[https://example.com] and Outer::Inner#run!",
	"<b>never closed",
	"\tcode\n\t\tnested",
	"#--\nhidden\n#++\nvisible",
}

var unitSeeds = []string{
	`{"kind":"class","name":"Outer::Thing","superclass":"Base","comment":"# Thing"}`,
	`{"kind":"module","name":"Outer"}` + "\n" + `{"kind":"method","name":"run","parent":"Outer","params":"(a)"}`,
	`{"kind":"constant","name":"Alias","parent":"Outer","value":"Outer::Thing"}`,
	`{"kind":"attribute","name":"size","parent":"Outer","rw":"RW","visibility":"private"}`,
	`{"kind":"include","name":"Enumerable","parent":"Outer"}`,
	"# comment line\n\n{\"kind\":\"nope\"}",
	`{"kind":"class"`,
}

func clampSeed(b []byte) []byte {
	if len(b) > maxSeedBytes {
		return b[:maxSeedBytes]
	}
	return b
}

func clampInput(b []byte) []byte {
	if len(b) > maxFuzzInput {
		b = b[:maxFuzzInput]
	}
	return append([]byte(nil), b...)
}

// addTestdataSeeds adds every file under testdata/<dir> with suffix ext.
func addTestdataSeeds(f *testing.F, dir, ext string) {
	root := filepath.Join("testdata", dir)
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ext {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}
