package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB на один seed
	maxFuzzInput = 1 << 16
)

var builtinSeeds = []string{
	"",
	"# Greeting\r\n- hi\r\n- hello\r\n",
	"> !# @enableSections = true\r\n# G\r\n## A\r\n- a\r\n## B\r\n- b\r\n",
	"# A\n- {open\n- close}\n- \\{escaped\\}\n",
	"## Orphan\n- x\n",
	"text before\n# A\n- a\n",
	"#\n# \n#A\n",
	"# G\n> note\n## C\n- c\n",
	"# E\n@ ml city\n@ prebuilt number\n- go to {city}\n",
	"# Dup\n- a\n\n# Dup\n- b\n",
	"   # Indented\n\t- tabbed\n",
	"# A\r\n- a\r\n\r\n\r\n# B\r\n- b",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все *.lu из testdata
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".lu" {
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

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for failure messages.
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
