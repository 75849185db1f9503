package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

const module = "readmap/"

// under reports whether path is prefix or one of its subpackages.
func under(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	require.NoError(t, cmd.Run(), "go list")
	dec := json.NewDecoder(&out)

	front := []string{
		"readmap/internal/cli", "readmap/internal/clibase",
		"readmap/internal/appcore", "readmap/internal/app", "readmap/cmd",
	}
	bans := map[string][]string{
		"readmap/internal/queue": {
			"readmap/internal", "readmap/pkg",
		},
		"readmap/internal/index": append([]string{
			"readmap/internal/align", "readmap/internal/pipeline",
			"readmap/internal/writers", "readmap/internal/output",
			"readmap/internal/blobstore",
		}, front...),
		"readmap/internal/align": append([]string{
			"readmap/internal/pipeline", "readmap/internal/writers",
			"readmap/internal/output", "readmap/internal/blobstore",
		}, front...),
		"readmap/internal/pipeline": append([]string{
			"readmap/internal/writers", "readmap/internal/output",
			"readmap/internal/blobstore", "readmap/internal/fasta",
		}, front...),
		"readmap/internal/output": append([]string{
			"readmap/internal/writers", "readmap/internal/blobstore",
		}, front...),
		"readmap/internal/writers": append([]string{
			"readmap/internal/blobstore",
		}, front...),
		"readmap/internal/blobstore": append([]string{
			"readmap/internal/index", "readmap/internal/pipeline",
			"readmap/internal/writers",
		}, front...),
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, module) {
			continue
		}
		for prefix, forbidden := range bans {
			if !under(p.ImportPath, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, module) {
					continue
				}
				for _, ban := range forbidden {
					if under(dep, ban) {
						violations = append(violations, p.ImportPath+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
