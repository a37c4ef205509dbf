package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeInvalidInput:       "Invalid input provided",
	CodeInvalidState:       "Invalid state for this operation",
	CodeNotFound:           "Resource not found",
	CodeConfigurationError: "Configuration error",
	CodeServiceTimeout:     "Service request timeout",
	CodeServiceUnavailable: "Service temporarily unavailable",
	CodeRateLimitExceeded:  "Rate limit exceeded",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "An unknown error occurred",

	CodeSnapshotUnavailable: "Pool snapshot unavailable",
	CodeMalformedPool:       "Pool record is missing required fields",
	CodePoolNotFound:        "Pool details unavailable",
	CodeSubgraphQueryFailed: "Subgraph query failed",
	CodeStreamConnectFailed: "Pool update stream connection failed",
	CodeStreamClosed:        "Pool update stream closed",

	CodeScanFailed:            "Opportunity scan failed",
	CodeLookupTimeout:         "Pool lookup timed out",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",
	CodeValidationRejected:    "Opportunity validation rejected",

	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeEthereumRPCError:         "Ethereum RPC call failed",
	CodeGasEstimationFailed:      "Gas estimation failed",

	CodeCircuitOpen: "Circuit breaker is open",
}
