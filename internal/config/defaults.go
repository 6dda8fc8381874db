package config

const (
	defaultStateDir         = "~/.local/share/semdaudit"
	defaultLogDir           = "~/.local/share/semdaudit/logs"
	defaultDatabaseDriver   = DriverPostgres
	defaultMaxOpenConns     = 4
	defaultQueryTimeout     = 120
	defaultSuccessExitCode  = 0
	defaultRegistrarTimeout = 300
	defaultOutputEncoding   = "utf-8"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

const (
	// DefaultRegisterMessageType is the EMDR_LOG message type of the initial registration request.
	DefaultRegisterMessageType = "registerDocumentRequest"
	// DefaultErrorStatus is the EMDR_LOG status reported as a bus error.
	DefaultErrorStatus = "error"
)

// DefaultDocumentKinds lists the SEMD kinds audited when documents.kinds is unset.
var DefaultDocumentKinds = []int{41, 90, 147, 205, 206}

// DefaultRegistrarCommand is the console command that re-submits a document.
// The document number is appended as the final argument.
var DefaultRegistrarCommand = []string{
	"sudo", "-u", "daemon",
	"/www/php7/bin/php", "/www/htdocs/docaplus/seven/bin/console", "app:remd:reg",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Database: Database{
			Driver:              defaultDatabaseDriver,
			MaxOpenConns:        defaultMaxOpenConns,
			QueryTimeoutSeconds: defaultQueryTimeout,
		},
		Documents: Documents{
			Kinds:               append([]int(nil), DefaultDocumentKinds...),
			RegisterMessageType: DefaultRegisterMessageType,
			ErrorStatus:         DefaultErrorStatus,
		},
		Registrar: Registrar{
			Command:         append([]string(nil), DefaultRegistrarCommand...),
			SuccessExitCode: defaultSuccessExitCode,
			TimeoutSeconds:  defaultRegistrarTimeout,
			OutputEncoding:  defaultOutputEncoding,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
