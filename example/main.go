// Command example demonstrates the gitimport library API: it imports a
// source repository into the current directory under the "vendor-lib"
// namespace and prints the per-ref outcomes.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/MyCarrier-DevOps/go-gitimport/pkg/gitimport"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: example <source-repo-url>")
	}

	result, err := gitimport.Import(context.Background(), gitimport.Options{
		RepoPath:     ".",
		SourceURL:    os.Args[1],
		SourceID:     "vendor-lib",
		Subdirectory: "third_party/vendor-lib",
	})
	if err != nil {
		log.Fatal(err)
	}

	for _, ref := range result.Refs {
		fmt.Printf("%-6s %s -> %s: %s\n", ref.Kind, ref.Source, ref.Destination, ref.Outcome)
	}
}
