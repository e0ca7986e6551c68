package ingestion

// AtomState tracks an atom through the ingestion state machine:
// Parsed → Embedding → Embedded → Committed, with Failed terminal from any
// non-terminal state.
type AtomState int

const (
	StateParsed AtomState = iota + 1
	StateEmbedding
	StateEmbedded
	StateCommitted
	StateFailed
)

func (s AtomState) String() string {
	switch s {
	case StateParsed:
		return "parsed"
	case StateEmbedding:
		return "embedding"
	case StateEmbedded:
		return "embedded"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FailureReason classifies a terminal ingestion failure.
type FailureReason string

const (
	ReasonParseError          FailureReason = "ParseError"
	ReasonProviderUnavailable FailureReason = "ProviderUnavailable"
	ReasonRateLimited         FailureReason = "RateLimited"
	ReasonInvalidInput        FailureReason = "InvalidInput"
	ReasonDimensionMismatch   FailureReason = "DimensionMismatch"
	ReasonTimeout             FailureReason = "Timeout"
	ReasonStoreError          FailureReason = "StoreError"
)

// AtomStatus is the final per-atom account of one ingestion call.
type AtomStatus struct {
	AtomID  string // section heading for parse failures without a usable id
	State   AtomState
	Skipped bool          // committed via the idempotent short-circuit
	Reason  FailureReason // set when State == StateFailed
	Detail  string        // human-readable failure detail
}

// Report enumerates the outcome of one ingestion call, keyed by atom id
// rather than completion order so re-runs produce a deterministic account.
type Report struct {
	Document  string
	Namespace string
	Atoms     []AtomStatus // sorted by AtomID
	Attempted int
	Committed int
	Skipped   int
	Failed    int
}
