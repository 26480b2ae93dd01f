package constant

const (
	LoggerPrefixDebug   = "[ DEBUG ]"
	LoggerPrefixInfo    = "[ INFO ]"
	LoggerPrefixWarning = "[ WARNING ]"
	LoggerPrefixError   = "[ ERROR ]"

	LoggerFileDebug = "logger/debug.log"
	LoggerFileInfo  = "logger/info.log"
	LoggerFileError = "logger/error.log"
)
