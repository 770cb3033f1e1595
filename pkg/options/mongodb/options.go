// Package mongodb provides the MongoDB connection options.
package mongodb

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"github.com/spf13/pflag"

	"github.com/kart-io/docbridge/pkg/errors"
	"github.com/kart-io/docbridge/pkg/options"
	"github.com/kart-io/docbridge/pkg/utils/json"
	"github.com/kart-io/docbridge/pkg/utils/validator"
)

var _ options.IOptions = (*Options)(nil)

// redactedPassword is the placeholder used when serializing passwords.
const redactedPassword = "[REDACTED]"

// PasswordEnv is read when no password is configured.
const PasswordEnv = "MONGODB_PASSWORD"

// Options defines configuration options for MongoDB.
type Options struct {
	// Connection
	URI        string `json:"uri" mapstructure:"uri" validate:"omitempty,startswith=mongodb"`
	Host       string `json:"host" mapstructure:"host" validate:"required_without=URI"`
	Port       int    `json:"port" mapstructure:"port" validate:"min=1,max=65535"`
	Database   string `json:"database" mapstructure:"database" validate:"dbname"`
	Collection string `json:"collection" mapstructure:"collection" validate:"collname"`

	// Credentials
	Username   string `json:"username" mapstructure:"username"`
	Password   string `json:"-" mapstructure:"password"`
	AuthSource string `json:"auth-source" mapstructure:"auth-source" validate:"omitempty,dbname"`

	// Auth is the deprecated "user:pass" form. Complete moves it into
	// Username and Password.
	Auth string `json:"-" mapstructure:"auth"`

	// Topology
	ReplicaSet string `json:"replica-set" mapstructure:"replica-set" validate:"omitempty,nowhitespace"`
	Direct     bool   `json:"direct" mapstructure:"direct"`

	// Retry
	MaxRetries int           `json:"max-retries" mapstructure:"max-retries" validate:"gte=0"`
	RetryDelay time.Duration `json:"retry-delay" mapstructure:"retry-delay" validate:"gte=0"`

	// Connection Pool
	MaxPoolSize     uint64        `json:"max-pool-size" mapstructure:"max-pool-size"`
	MinPoolSize     uint64        `json:"min-pool-size" mapstructure:"min-pool-size" validate:"ltefield=MaxPoolSize"`
	MaxConnIdleTime time.Duration `json:"max-conn-idle-time" mapstructure:"max-conn-idle-time"`

	// Timeouts
	ConnectTimeout         time.Duration `json:"connect-timeout" mapstructure:"connect-timeout"`
	SocketTimeout          time.Duration `json:"socket-timeout" mapstructure:"socket-timeout"`
	ServerSelectionTimeout time.Duration `json:"server-selection-timeout" mapstructure:"server-selection-timeout"`

	// DriverOptions are extra connection string parameters, e.g. w=majority.
	DriverOptions map[string]string `json:"driver-options" mapstructure:"driver-options"`
}

// optionsForJSON is used for JSON marshaling with password redacted.
type optionsForJSON struct {
	URI                    string            `json:"uri"`
	Host                   string            `json:"host"`
	Port                   int               `json:"port"`
	Database               string            `json:"database"`
	Collection             string            `json:"collection"`
	Username               string            `json:"username"`
	Password               string            `json:"password"`
	AuthSource             string            `json:"auth-source"`
	ReplicaSet             string            `json:"replica-set"`
	Direct                 bool              `json:"direct"`
	MaxRetries             int               `json:"max-retries"`
	RetryDelay             string            `json:"retry-delay"`
	MaxPoolSize            uint64            `json:"max-pool-size"`
	MinPoolSize            uint64            `json:"min-pool-size"`
	MaxConnIdleTime        string            `json:"max-conn-idle-time"`
	ConnectTimeout         string            `json:"connect-timeout"`
	SocketTimeout          string            `json:"socket-timeout"`
	ServerSelectionTimeout string            `json:"server-selection-timeout"`
	DriverOptions          map[string]string `json:"driver-options,omitempty"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Host:                   "localhost",
		Port:                   27017,
		Database:               "test_db",
		Collection:             "test_col",
		AuthSource:             "admin",
		MaxRetries:             2,
		RetryDelay:             2 * time.Second,
		MaxPoolSize:            100,
		MinPoolSize:            0,
		MaxConnIdleTime:        5 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		SocketTimeout:          30 * time.Second,
		ServerSelectionTimeout: 30 * time.Second,
	}
}

// Clone returns a deep copy of the options.
func (o *Options) Clone() *Options {
	c := *o
	if o.DriverOptions != nil {
		c.DriverOptions = make(map[string]string, len(o.DriverOptions))
		for k, v := range o.DriverOptions {
			c.DriverOptions[k] = v
		}
	}
	return &c
}

// Complete fills in any fields not set that are required to have valid data.
// It reads the password from MONGODB_PASSWORD when unset and splits the
// deprecated Auth field into Username and Password.
func (o *Options) Complete() error {
	if o.Auth != "" {
		logger.Warnw("mongodb auth option is deprecated, use username and password instead")

		parts := strings.Split(o.Auth, ":")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return errors.ErrIncorrectCredentials.WithMessage("auth must have the form user:password")
		}
		if o.Username != "" || o.Password != "" {
			return errors.ErrIncorrectCredentials.WithMessage("auth conflicts with username and password")
		}
		o.Username, o.Password = parts[0], parts[1]
		o.Auth = ""
	}

	if o.Password == "" && o.Username != "" {
		o.Password = os.Getenv(PasswordEnv)
	}

	return nil
}

// Validate checks if the options are valid.
func (o *Options) Validate() error {
	if o == nil {
		return errors.ErrInvalidConfig.WithMessage("mongodb options are nil")
	}

	if (o.Username == "") != (o.Password == "") {
		return errors.ErrIncorrectCredentials.WithMessage("username and password must be set together")
	}

	if errs := validator.Struct(o); errs.HasErrors() {
		return errors.ErrInvalidConfig.WithMessage(errs.Error()).WithCause(errs)
	}

	return nil
}

// HasCredentials reports whether a username and password are configured.
func (o *Options) HasCredentials() bool {
	return o.Username != "" && o.Password != ""
}

// AddFlags adds flags for MongoDB options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	p := options.Join(prefixes...) + "mongodb."

	fs.StringVar(&o.URI, p+"uri", o.URI, "MongoDB URI (mongodb://...). Overrides host and port.")
	fs.StringVar(&o.Host, p+"host", o.Host, "MongoDB service host address.")
	fs.IntVar(&o.Port, p+"port", o.Port, "MongoDB service port.")
	fs.StringVar(&o.Database, p+"database", o.Database, "Database name for the server to use.")
	fs.StringVar(&o.Collection, p+"collection", o.Collection, "Collection (or GridFS bucket) name.")
	fs.StringVar(&o.Username, p+"username", o.Username, "Username for access to mongodb service.")
	fs.StringVar(&o.Password, p+"password", o.Password, "Password for access to mongodb (prefer the "+PasswordEnv+" env var).")
	fs.StringVar(&o.Auth, p+"auth", o.Auth, "DEPRECATED: credentials as user:password, use username and password instead.")
	fs.StringVar(&o.AuthSource, p+"auth-source", o.AuthSource, "MongoDB authentication source.")
	fs.StringVar(&o.ReplicaSet, p+"replica-set", o.ReplicaSet, "MongoDB replica set name.")
	fs.BoolVar(&o.Direct, p+"direct", o.Direct, "MongoDB direct connection.")
	fs.IntVar(&o.MaxRetries, p+"max-retries", o.MaxRetries, "Number of connection retries after the first attempt.")
	fs.DurationVar(&o.RetryDelay, p+"retry-delay", o.RetryDelay, "Fixed delay between connection attempts.")
	fs.Uint64Var(&o.MaxPoolSize, p+"max-pool-size", o.MaxPoolSize, "Maximum number of connections in the pool.")
	fs.Uint64Var(&o.MinPoolSize, p+"min-pool-size", o.MinPoolSize, "Minimum number of connections in the pool.")
	fs.DurationVar(&o.MaxConnIdleTime, p+"max-conn-idle-time", o.MaxConnIdleTime, "Maximum connection idle time.")
	fs.DurationVar(&o.ConnectTimeout, p+"connect-timeout", o.ConnectTimeout, "Timeout for connection.")
	fs.DurationVar(&o.SocketTimeout, p+"socket-timeout", o.SocketTimeout, "Timeout for socket operations.")
	fs.DurationVar(&o.ServerSelectionTimeout, p+"server-selection-timeout", o.ServerSelectionTimeout, "Timeout for server selection.")
	fs.StringToStringVar(&o.DriverOptions, p+"driver-options", o.DriverOptions, "Extra connection string parameters (key=value,...).")
}

// MarshalJSON implements json.Marshaler with password redaction.
func (o *Options) MarshalJSON() ([]byte, error) {
	return json.Marshal(optionsForJSON{
		URI:                    o.URI,
		Host:                   o.Host,
		Port:                   o.Port,
		Database:               o.Database,
		Collection:             o.Collection,
		Username:               o.Username,
		Password:               o.redactedPassword(),
		AuthSource:             o.AuthSource,
		ReplicaSet:             o.ReplicaSet,
		Direct:                 o.Direct,
		MaxRetries:             o.MaxRetries,
		RetryDelay:             o.RetryDelay.String(),
		MaxPoolSize:            o.MaxPoolSize,
		MinPoolSize:            o.MinPoolSize,
		MaxConnIdleTime:        o.MaxConnIdleTime.String(),
		ConnectTimeout:         o.ConnectTimeout.String(),
		SocketTimeout:          o.SocketTimeout.String(),
		ServerSelectionTimeout: o.ServerSelectionTimeout.String(),
		DriverOptions:          o.DriverOptions,
	})
}

// String returns a string representation with password redacted.
func (o *Options) String() string {
	return fmt.Sprintf("MongoDB{host=%s, port=%d, user=%s, password=%s, database=%s, collection=%s}",
		o.Host, o.Port, o.Username, o.redactedPassword(), o.Database, o.Collection)
}

func (o *Options) redactedPassword() string {
	if o.Password == "" {
		return ""
	}
	return redactedPassword
}
