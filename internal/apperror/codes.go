package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Market data error codes
const (
	CodeSnapshotUnavailable Code = "SNAPSHOT_UNAVAILABLE"
	CodeMalformedPool       Code = "MALFORMED_POOL"
	CodePoolNotFound        Code = "POOL_NOT_FOUND"
	CodeSubgraphQueryFailed Code = "SUBGRAPH_QUERY_FAILED"
	CodeStreamConnectFailed Code = "STREAM_CONNECT_FAILED"
	CodeStreamClosed        Code = "STREAM_CLOSED"
)

// Detection and validation error codes
const (
	CodeScanFailed            Code = "SCAN_FAILED"
	CodeLookupTimeout         Code = "LOOKUP_TIMEOUT"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
	CodeValidationRejected    Code = "VALIDATION_REJECTED"
)

// Blockchain error codes
const (
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeGasEstimationFailed      Code = "GAS_ESTIMATION_FAILED"
)

// Circuit breaker error codes
const (
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
