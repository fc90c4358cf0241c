package notion

// API limits. These are wire contracts - they must match the server side
// exactly for requests to be accepted.
const (
	// MaxRunLen is the maximum number of characters in a single rich text
	// run and also the maximum total across one block's rich text array.
	MaxRunLen = 2000

	// MaxBlocksPerBatch is the maximum number of sibling blocks in one
	// append request.
	MaxBlocksPerBatch = 100

	// MaxNestingDepth is the depth limit for nested children documented by
	// the API. Conversion does not enforce it, matching observed behavior
	// of the pipeline this engine replaces.
	MaxNestingDepth = 2
)
