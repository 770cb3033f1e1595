package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// OK represents a successful operation.
var OK = Register(&Errno{
	Code:      MakeCode(ServiceCommon, CategorySuccess, 0),
	HTTP:      http.StatusOK,
	GRPCCode:  codes.OK,
	MessageEN: "Success",
	MessageZH: "成功",
})

// ErrInternal is the fallback for errors that carry no code.
var ErrInternal = Register(&Errno{
	Code:      MakeCode(ServiceCommon, CategoryInternal, 0),
	HTTP:      http.StatusInternalServerError,
	GRPCCode:  codes.Internal,
	MessageEN: "Internal server error",
	MessageZH: "服务器内部错误",
})

// ============================================================================
// Input errors
// ============================================================================

var (
	// ErrMalformedQuery indicates a filter value that claims to be JSON but
	// does not decode to an object, or an object the extractor cannot walk.
	ErrMalformedQuery = NewRequestError(ServiceDocBridge, 1).
				Message("Malformed query", "查询格式错误").
				MustBuild()

	// ErrUnsupportedModifier indicates a lookup modifier outside the supported set.
	ErrUnsupportedModifier = NewRequestError(ServiceDocBridge, 2).
				Message("Unsupported modifier", "不支持的查询修饰符").
				MustBuild()

	// ErrValueNotSupported indicates a value whose type cannot be stored or matched.
	ErrValueNotSupported = NewRequestError(ServiceDocBridge, 3).
				Message("Value not supported", "不支持的值类型").
				MustBuild()

	// ErrIncorrectCredentials indicates malformed credentials in the connection config.
	ErrIncorrectCredentials = NewConfigError(ServiceDocBridge, 1).
				Message("Incorrect credentials", "认证参数错误").
				MustBuild()

	// ErrInvalidConfig indicates an invalid connection config.
	ErrInvalidConfig = NewConfigError(ServiceDocBridge, 2).
				Message("Invalid configuration", "配置无效").
				MustBuild()
)

// ============================================================================
// Resource errors
// ============================================================================

// ErrDoesNotExist indicates the addressed document or file does not exist.
var ErrDoesNotExist = NewNotFoundError(ServiceDocBridge, 1).
	Message("Object does not exist", "对象不存在").
	MustBuild()

// ============================================================================
// Transient infrastructure errors
// ============================================================================

var (
	// ErrConnectionFailure indicates the store could not be reached within the retry budget.
	ErrConnectionFailure = NewNetworkError(ServiceDocBridge, 1).
				Message("Connection failure", "数据库连接失败").
				MustBuild()

	// ErrOperationFailure indicates the store rejected an operation within the retry budget.
	ErrOperationFailure = NewDatabaseError(ServiceDocBridge, 1).
				Message("Operation failure", "数据库操作失败").
				MustBuild()
)

// ============================================================================
// Protocol/state errors
// ============================================================================

// ErrInvalidMode indicates a connection was requested in a mode other than the one it is bound to.
var ErrInvalidMode = NewConflictError(ServiceDocBridge, 1).
	Message("The mode set does not match the mode requested", "连接模式不匹配").
	MustBuild()
