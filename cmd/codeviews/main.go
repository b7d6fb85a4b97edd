// Command codeviews is a thin collaborator CLI over the core: it reads one
// source file, runs codeviews.Generate, and prints the resulting graph as
// debug YAML. It is not part of the core's external contract (spec.md §6
// explicitly puts CLI/config out of scope for the core itself) — it exists
// the way inspector/coder/example/main.go exists for the teacher's own
// graph-building API, as a runnable demonstration of the public entry
// point.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/viant/afs"

	"github.com/jaid-monwar/tree-sitter-codeviews/catalog"
	"github.com/jaid-monwar/tree-sitter-codeviews/codeviews"
	"github.com/jaid-monwar/tree-sitter-codeviews/parsetree"
	"github.com/jaid-monwar/tree-sitter-codeviews/projectscan"
)

func main() {
	path := flag.String("file", "", "path to a Go source file")
	lang := flag.String("lang", "go", "language tag (go, java)")
	views := flag.String("views", "", "comma-separated subset of AST,CFG,DFG (default: all)")
	lastDef := flag.Bool("dfg.last_def", false, "annotate DFG edges with last-def line")
	lastUse := flag.Bool("dfg.last_use", false, "annotate DFG edges with last-use line")
	strictParse := flag.Bool("strict_parse", false, "abort on any parser error")
	flag.Parse()

	if *path == "" {
		log.Fatal("codeviews: -file is required")
	}

	ctx := context.Background()
	fs := afs.New()
	src, err := fs.DownloadWithURL(ctx, *path)
	if err != nil {
		log.Fatalf("codeviews: read %s: %v", *path, err)
	}

	reg := catalog.NewRegistry()
	cat, ok := reg.Get(*lang)
	if !ok {
		log.Fatalf("codeviews: unknown language %q", *lang)
	}

	parser := parsetree.NewSitterParser(cat.GetLanguage())

	cfg := codeviews.NewConfig(
		codeviews.WithViews(parseViews(*views)...),
		codeviews.WithDFGLastDef(*lastDef),
		codeviews.WithDFGLastUse(*lastUse),
		codeviews.WithStrictParse(*strictParse),
	)

	graph, err := codeviews.Generate(src, cat, parser, cfg)
	if err != nil {
		log.Fatalf("codeviews: generate: %v", err)
	}

	if detector := projectscan.New(); detector != nil {
		if proj, derr := detector.DetectProject(ctx, *path); derr == nil && proj.ModulePath != "" {
			log.Printf("codeviews: scanning %s (module %s)", proj.RelativePath, proj.ModulePath)
		}
	}

	out, err := graph.MarshalDebugYAML()
	if err != nil {
		log.Fatalf("codeviews: marshal: %v", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
}

func parseViews(s string) []codeviews.View {
	if s == "" {
		return nil
	}
	var out []codeviews.View
	for _, part := range strings.Split(s, ",") {
		if part == "" {
			continue
		}
		out = append(out, codeviews.View(strings.ToUpper(part)))
	}
	return out
}
