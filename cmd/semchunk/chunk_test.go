package main

import (
	"testing"

	"github.com/bububa/semchunk"
)

func TestDocumentID(t *testing.T) {
	a := documentID("doc.txt", "some content")
	if a != documentID("doc.txt", "some content") {
		t.Error("id is not stable for identical inputs")
	}
	if a == documentID("doc.txt", "other content") {
		t.Error("id ignores the content")
	}
	if a == documentID("other.txt", "some content") {
		t.Error("id ignores the source name")
	}
}

func TestBuildDocument(t *testing.T) {
	chunks := []semchunk.Chunk{
		{Text: "hello", Start: 0, End: 5, TokenSize: 5},
		{Text: "world", Start: 6, End: 11, TokenSize: 5},
	}

	flagOffsets = false
	doc := buildDocument("doc.txt", "hello world", chunks)
	if len(doc.Chunks) != 2 {
		t.Fatalf("want 2 chunks, got %d", len(doc.Chunks))
	}
	if doc.Chunks[0].Start != nil || doc.Chunks[0].End != nil {
		t.Error("offsets included without --offsets")
	}

	flagOffsets = true
	doc = buildDocument("doc.txt", "hello world", chunks)
	if doc.Chunks[1].Start == nil || *doc.Chunks[1].Start != 6 {
		t.Error("offsets missing with --offsets")
	}
	if doc.Chunks[1].End == nil || *doc.Chunks[1].End != 11 {
		t.Error("end offset missing with --offsets")
	}
}
