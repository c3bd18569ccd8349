/*
Package server implements msgpack IPC for querying a trained wordfind model.

The server reads a stream of msgpack maps from stdin and writes one msgpack map per
request to stdout. Logs go to stderr so the stream stays clean.

# IPC

Every request carries an ID and an action. The other fields depend on the action:

	{"id": "q1", "action": "discover", "l": 5}
	{"id": "q2", "action": "pair", "x": "new", "y": "york"}
	{"id": "q3", "action": "known", "w": "new", "l": 10}
	{"id": "q4", "action": "stats"}
	{"id": "q5", "action": "config", "pmi": 4.5, "max": 50}
	{"id": "q6", "action": "health"}

discover answers with the accepted words, best first, each with its score and a
1-based rank:

	{"id": "q1", "s": [{"w": "newyork", "s": 0.805, "r": 1}], "c": 1, "t": 212}

The accepted list is computed once and cached until a config request changes the
threshold or the candidate cap.

Errors are answered with the request ID, a message and an HTTP-like code:

	{"id": "q7", "e": "unknown action: foo", "c": 400}

On start the server writes {"status": "ready"} before reading any request.
*/
package server

// Request is the single request shape for all actions.
type Request struct {
	ID            string   `msgpack:"id"`
	Action        string   `msgpack:"action"`
	Limit         int      `msgpack:"l,omitempty"`
	First         string   `msgpack:"x,omitempty"`
	Second        string   `msgpack:"y,omitempty"`
	Word          string   `msgpack:"w,omitempty"`
	PMIThreshold  *float64 `msgpack:"pmi,omitempty"`
	MaxCandidates *int     `msgpack:"max,omitempty"`
}

// WordSuggestion - one accepted word
type WordSuggestion struct {
	Word  string  `msgpack:"w"`
	Score float64 `msgpack:"s"`
	Rank  uint16  `msgpack:"r"`
}

// DiscoverResponse - ranked new words
type DiscoverResponse struct {
	ID        string           `msgpack:"id"`
	Words     []WordSuggestion `msgpack:"s"`
	Count     int              `msgpack:"c"`
	TimeTaken int64            `msgpack:"t"` // microseconds
}

// PairResponse - statistics of one pair
type PairResponse struct {
	ID           string  `msgpack:"id"`
	Found        bool    `msgpack:"found"`
	Count        int     `msgpack:"count"`
	Terminal     bool    `msgpack:"terminal"`
	HasPMI       bool    `msgpack:"has_pmi"`
	PMI          float64 `msgpack:"pmi"`
	Probability  float64 `msgpack:"p"`
	LeftEntropy  float64 `msgpack:"hl"`
	RightEntropy float64 `msgpack:"hr"`
	Score        float64 `msgpack:"score"`
}

// KnownWord - a seed dictionary entry
type KnownWord struct {
	Word      string `msgpack:"w"`
	Frequency int    `msgpack:"f"`
}

// KnownResponse - seed lexicon lookup
type KnownResponse struct {
	ID        string      `msgpack:"id"`
	Known     bool        `msgpack:"known"`
	Frequency int         `msgpack:"f,omitempty"`
	Words     []KnownWord `msgpack:"s,omitempty"`
}

// StatsResponse - trie summary
type StatsResponse struct {
	ID           string `msgpack:"id"`
	Nodes        int    `msgpack:"nodes"`
	Unigrams     int    `msgpack:"unigrams"`
	UnigramTotal int    `msgpack:"unigram_total"`
	Pairs        int    `msgpack:"pairs"`
	PairTotal    int    `msgpack:"pair_total"`
	Forward3     int    `msgpack:"forward3"`
	Rotated3     int    `msgpack:"rotated3"`
	KnownWords   int    `msgpack:"known_words"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID            string  `msgpack:"id"`
	Status        string  `msgpack:"status"`
	PMIThreshold  float64 `msgpack:"pmi"`
	MaxCandidates int     `msgpack:"max"`
}

// StatusResponse - health and ready signals
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
