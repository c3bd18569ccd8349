package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/wordfind/pkg/cooccur"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintResults(t *testing.T) {
	trie := cooccur.New(cooccur.WithPMIThreshold(3))

	var empty bytes.Buffer
	printResults(&empty, trie, cooccur.Result{})
	assert.Contains(t, empty.String(), "No new words found")
	assert.Contains(t, empty.String(), "pmi threshold 3")

	result := cooccur.Result{
		Ranked: make([]cooccur.Candidate, 5),
		Accepted: []cooccur.Candidate{
			{Word: "newyork", Score: 0.805, PMI: 2.415},
			{Word: "ilove", Score: 0.444, PMI: 4},
		},
	}
	var out bytes.Buffer
	printResults(&out, trie, result)
	assert.Contains(t, out.String(), "2 new words from 5 ranked pairs")
	assert.Contains(t, out.String(), "newyork")
	assert.Contains(t, out.String(), "0.8050")
	assert.Contains(t, out.String(), "pmi 4.0000")
}

func TestWriteWordFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "words.txt")
	require.NoError(t, writeWordFile(path, []cooccur.Candidate{{Word: "icecream", Score: 1.5}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "icecream 1.5000\n", string(data))
}
