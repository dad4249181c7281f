// Command extract runs the extraction pipeline against a single local
// file and prints the candidates as JSON. Useful for testing prompts and
// the statement fallback without running the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmelikhov/finbuddy/internal/extract"
	"github.com/dmelikhov/finbuddy/internal/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("error: %v", err)
	}
}

func run() error {
	var (
		file  = flag.String("file", "", "path to the receipt or statement file")
		kind  = flag.String("kind", "statement", "extraction kind: receipt or statement")
		model = flag.String("model", os.Getenv("GEMINI_MODEL"), "Gemini model name (or set GEMINI_MODEL env)")
	)
	flag.Parse()

	if *file == "" {
		return fmt.Errorf("-file is required")
	}
	if *kind != "receipt" && *kind != "statement" {
		return fmt.Errorf("unknown kind %q: want receipt or statement", *kind)
	}

	ctx := context.Background()

	contentType := mime.TypeByExtension(filepath.Ext(*file))
	text, err := extract.ExtractText(*file, contentType)
	if err != nil {
		return fmt.Errorf("failed to extract text from %q: %w", *file, err)
	}

	var gen extract.Generator
	if os.Getenv("GEMINI_API_KEY") != "" {
		gw, err := extract.NewGeminiGateway(ctx, *model)
		if err != nil {
			return fmt.Errorf("failed to create model gateway: %w", err)
		}
		gen = gw
	}

	svc := extract.NewService(gen, logger.New())

	var cands []*extract.Candidate
	switch *kind {
	case "receipt":
		cand, err := svc.ExtractReceipt(ctx, text)
		if err != nil {
			return err
		}
		cands = []*extract.Candidate{cand}
	case "statement":
		cands, err = svc.ExtractStatement(ctx, text)
		if err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(cands, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode candidates: %w", err)
	}
	fmt.Println(string(out))

	return nil
}
