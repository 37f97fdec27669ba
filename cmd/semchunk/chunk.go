package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/semchunk"
	"github.com/bububa/semchunk/tokenizer"
)

// Flag variables.
var (
	flagSize          int
	flagOverlap       float64
	flagOverlapTokens int
	flagTokenizer     string
	flagCounter       string
	flagMaxTokenChars int
	flagHTML          bool
	flagOffsets       bool
	flagProcesses     int
	flagProgress      bool
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [files...]",
	Short: "Chunk one or more text files (or stdin) and print JSON",
	Long: `Chunk reads the given files (or stdin when none are given), splits each
into chunks of at most --size tokens and prints one JSON document per input.

Examples:
  semchunk chunk README.md --size 512 --tokenizer cl100k_base
  semchunk chunk docs/*.txt --size 200 --counter words --overlap 0.2
  curl -s https://example.com | semchunk chunk --html --size 300`,
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)

	chunkCmd.Flags().IntVar(&flagSize, "size", 0, "Maximum tokens per chunk (required)")
	chunkCmd.Flags().Float64Var(&flagOverlap, "overlap", 0, "Overlap between chunks as a fraction of the chunk size")
	chunkCmd.Flags().IntVar(&flagOverlapTokens, "overlap_tokens", 0, "Overlap between chunks as an absolute token count")
	chunkCmd.Flags().StringVar(&flagTokenizer, "tokenizer", "", "tiktoken model or encoding name to count with")
	chunkCmd.Flags().StringVar(&flagCounter, "counter", "words", "Heuristic counter when no tokenizer is given: words, graphemes or sentences")
	chunkCmd.Flags().IntVar(&flagMaxTokenChars, "max_token_chars", 0, "Length of the longest vocabulary token, enables fast rejection of long inputs")
	chunkCmd.Flags().BoolVar(&flagHTML, "html", false, "Convert HTML input to Markdown before chunking")
	chunkCmd.Flags().BoolVar(&flagOffsets, "offsets", false, "Include byte offsets in the output")
	chunkCmd.Flags().IntVar(&flagProcesses, "processes", 0, "Number of files chunked concurrently (default: number of CPUs)")
	chunkCmd.Flags().BoolVar(&flagProgress, "progress", false, "Log progress while chunking multiple files")

	_ = chunkCmd.MarkFlagRequired("size")
}

// chunkedDocument is the JSON shape printed per input.
type chunkedDocument struct {
	ID     string      `json:"id"`
	Source string      `json:"source"`
	Chunks []chunkJSON `json:"chunks"`
}

type chunkJSON struct {
	Text      string `json:"text"`
	Start     *int   `json:"start,omitempty"`
	End       *int   `json:"end,omitempty"`
	TokenSize int    `json:"token_size"`
}

func runChunk(cmd *cobra.Command, args []string) error {
	counter, err := resolveCounter()
	if err != nil {
		return err
	}

	opts := []semchunk.Option{
		semchunk.WithOverlap(flagOverlap),
		semchunk.WithOverlapTokens(flagOverlapTokens),
	}
	if flagMaxTokenChars > 0 {
		opts = append(opts, semchunk.WithMaxTokenChars(flagMaxTokenChars))
	}
	chunker, err := semchunk.New(flagSize, counter, opts...)
	if err != nil {
		return err
	}

	sources, texts, err := readInputs(args)
	if err != nil {
		return err
	}

	batchOpts := []semchunk.BatchOption{
		semchunk.WithProcesses(flagProcesses),
	}
	if flagProgress {
		batchOpts = append(batchOpts, semchunk.WithProgress(func(done, total int) {
			logger.Info("chunked", zap.Int("done", done), zap.Int("total", total))
		}))
	}

	results, err := chunker.ChunkBatch(cmd.Context(), texts, batchOpts...)
	if err != nil {
		return err
	}

	enc := sonic.ConfigDefault.NewEncoder(os.Stdout)
	for i, chunks := range results {
		logger.Debug("document chunked",
			zap.String("source", sources[i]),
			zap.Int("chunks", len(chunks)),
		)
		if err := enc.Encode(buildDocument(sources[i], texts[i], chunks)); err != nil {
			return err
		}
	}
	if stats, ok := chunker.CacheStats(); ok {
		logger.Debug("token counter cache",
			zap.Int64("hits", stats.Hits),
			zap.Int64("misses", stats.Misses),
			zap.Int("size", stats.Size),
		)
	}
	return nil
}

// resolveCounter picks the token counter: a tiktoken tokenizer when named,
// otherwise one of the heuristic Unicode segmentation counters.
func resolveCounter() (semchunk.TokenCounter, error) {
	if flagTokenizer != "" {
		return tokenizer.Resolve(flagTokenizer)
	}
	switch flagCounter {
	case "words":
		return tokenizer.WordsCounter{}, nil
	case "graphemes":
		return tokenizer.GraphemesCounter{}, nil
	case "sentences":
		return tokenizer.SentencesCounter{}, nil
	}
	return nil, fmt.Errorf("unknown counter %q: expected words, graphemes or sentences", flagCounter)
}

// readInputs loads every named file, or stdin when no files are named,
// converting HTML to Markdown first when requested.
func readInputs(paths []string) (sources []string, texts []string, err error) {
	if len(paths) == 0 {
		text, err := readInput(os.Stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []string{"stdin"}, []string{text}, nil
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		text, err := readInput(f)
		f.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		sources = append(sources, path)
		texts = append(texts, text)
	}
	return sources, texts, nil
}

func readInput(r io.Reader) (string, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if flagHTML {
		bs, err = htmltomarkdown.ConvertReader(bytes.NewReader(bs))
		if err != nil {
			return "", fmt.Errorf("converting html: %w", err)
		}
	}
	return string(bs), nil
}

func buildDocument(source, text string, chunks []semchunk.Chunk) chunkedDocument {
	doc := chunkedDocument{
		ID:     documentID(source, text),
		Source: source,
		Chunks: make([]chunkJSON, 0, len(chunks)),
	}
	for _, c := range chunks {
		cj := chunkJSON{Text: c.Text, TokenSize: c.TokenSize}
		if flagOffsets {
			start, end := c.Start, c.End
			cj.Start, cj.End = &start, &end
		}
		doc.Chunks = append(doc.Chunks, cj)
	}
	return doc
}

// documentID derives a stable identifier from the source name and content.
func documentID(source, text string) string {
	buf := new(bytes.Buffer)
	buf.WriteString(source)
	buf.WriteByte('\n')
	buf.WriteString(text)
	return uuid.NewSHA1(uuid.NameSpaceOID, buf.Bytes()).String()
}
