package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client (update checks).
var UserAgent = "Go-Wishly/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Wishly"
	AppID             = "com.github.tartampluch.go-wishly"
	KeyringService    = "com.github.tartampluch.go-wishly"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
	DBFileName        = "wishly.db"
	FeedFileName      = "reminders.ics"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the database, logs and the rendered reminder feed.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	// Used for creating the data and cache directories.
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug     = "debug"
	FlagDataDir   = "data-dir"
	FlagLang      = "lang"
	FlagName      = "name"
	FlagDay       = "day"
	FlagMonth     = "month"
	FlagYear      = "year"
	FlagNotes     = "notes"
	FlagGift      = "gift"
	FlagCategory  = "category"
	FlagDOB       = "dob"
	FlagID        = "id"
	FlagOut       = "out"
	FlagIn        = "in"
	FlagICS       = "ics"
	FlagVCF       = "vcf"
	FlagYes       = "yes"
	FlagPort      = "port"
	FlagApply     = "apply"
	FlagDesc      = "description"
	FlagLink      = "link"
	FlagRecipient = "recipient"

	MsgVersionOutput = "%s version %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Persisted Storage Keys
// -----------------------------------------------------------------------------

// The key names are carried over from the first release so existing
// databases keep loading without a migration step.
const (
	KeyUserName = "cb_user"
	KeyUserDOB  = "cb_user_dob"
	KeyData     = "cb_data"
	KeyTheme    = "cb_theme"
	KeyGifts    = "cb_gifts"
	KeyRevision = "cb_rev"
)

// Theme values stored under KeyTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyNotifTitle  = "notif_title"
	TKeyNotifBody   = "notif_body"
	TKeyShareToday  = "share_today"
	TKeyShareDays   = "share_days"
	TKeyChannelName = "channel_name"
	TKeyChannelDesc = "channel_desc"
)

// SupportedLanguages defines the list of available languages (ISO 639-1).
var SupportedLanguages = []string{"en", "es"}

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultPort     = "18080"
	DefaultLanguage = "en"

	// ReminderHour is the fixed local hour at which birthday reminders fire.
	ReminderHour = 9

	// ProbeLeapYear is used to verify that a (day, month) pair exists in
	// at least one calendar year. Feb 29 is valid in 2000.
	ProbeLeapYear = 2000

	// NotificationChannelID matches the channel created by the first
	// mobile release; reusing it keeps scheduled reminders grouped.
	NotificationChannelID = "birthday_channel"

	// ChannelImportanceMax requests heads-up delivery where supported.
	ChannelImportanceMax = 5

	// EmbeddedPassphrase is the at-rest obfuscation key baked into the
	// binary. This is deliberately not a secrecy boundary: anyone with
	// the binary has the key. It only protects the stored collection
	// against casual inspection of the database file. Users may replace
	// it with their own passphrase via the OS keyring (KeyringService /
	// KeyringUser).
	EmbeddedPassphrase = "wishly-super-secret-key-v1"
	KeyringUser        = "storage-passphrase"

	MinBirthYear = 1900
	MaxNameLen   = 120
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Wishly//Reminders//EN"
	ICalCalName   = "Birthdays"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "wishly"
	ICalRuleYear  = "FREQ=YEARLY"
	ICalTrigger   = "PT0S"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropRRule       = "RRULE"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	FormatUID = "%d@%s"

	// StubVCalendar is the minimal valid iCalendar object served while no
	// reminders are scheduled. Clients flag a truly empty feed as invalid.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for vCard BDAY parsing and the profile DOB.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"

	// DefaultLeapYear is the fallback year for --MM-DD vCard dates.
	DefaultLeapYear = 2000

	// Limits
	MinPort = 1
	MaxPort = 65535

	// File Extensions
	ExtVCF  = ".vcf"
	ExtJSON = ".json"
	ExtICS  = ".ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	FeedRefreshInterval = 24 * time.Hour
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// Update Provider
// -----------------------------------------------------------------------------

const (
	// DefaultUpdateURL points at the latest release bundle. The provider
	// is opaque to the rest of the application; any failure here is
	// logged and swallowed.
	DefaultUpdateURL = "https://github.com/tartampluch/go-wishly/releases/latest/download/update.zip"

	UpdateStagedFile = "update.staged.zip"
	UpdateBundleFile = "update.zip"
	UpdateETagFile   = "update.etag"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrStoreOpen      = "failed to open data store"
	ErrStoreQuery     = "data store query failed"
	ErrStoreWrite     = "data store write failed"
	ErrSaveFailed     = "failed to persist birthday collection"
	ErrEncrypt        = "failed to encrypt payload"
	ErrDecodeFallback = "stored payload unreadable, starting with empty collection"
	ErrImportParse    = "unable to parse backup file"
	ErrImportEmpty    = "backup file contains no records"
	ErrImportInvalid  = "backup contains an invalid record"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrFeedWrite      = "failed to write reminder feed"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrWriteResp      = "failed to write response body"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (https only)"
	ErrUpdateCheck    = "update check failed"
	ErrUpdateApply    = "update apply failed"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrDataDir        = "could not determine user config dir"
	ErrCreateDir      = "could not create app directory"
	ErrAppFailed      = "application failed unexpectedly"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrRecordMissing  = "no record with that id"
	ErrGiftMissing    = "no gift idea with that id"
	ErrNotOnboarded   = "no profile set, run the onboard command first"
	ErrConfirmNeeded  = "aborted: confirmation required"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Reminder feed initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgLoadedModern    = "Collection loaded (encrypted payload)"
	MsgLoadedLegacy    = "Collection loaded (legacy plaintext payload)"
	MsgLoadedEmpty     = "No stored collection, starting empty"
	MsgSaved           = "Collection persisted"
	MsgPermDenied      = "Notification permission not granted"
	MsgChannelFailed   = "Notification channel creation failed"
	MsgScheduled       = "Reminder scheduled"
	MsgScheduleFailed  = "Reminder scheduling failed"
	MsgCancelled       = "Reminder cancelled"
	MsgCancelFailed    = "Reminder cancellation failed"
	MsgRescheduleAll   = "Rescheduling reminders for loaded collection"
	MsgFeedUpdated     = "Reminder feed updated"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgPassphraseSet   = "Using keyring passphrase for storage encryption"
	MsgPassphraseNone  = "No keyring passphrase, using embedded key"
	MsgUpdateCheck     = "Checking for updates"
	MsgUpdateFound     = "Update bundle staged"
	MsgUpdateNone      = "No update available"
	MsgUpdateApplied   = "Update bundle activated"
	MsgImported        = "Backup imported"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping invalid date format"
	MsgCleared         = "All stored data cleared"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgConfirmReplace  = "Found %d records. Replace the current collection? [y/N] "
	MsgConfirmClear    = "Delete every stored birthday? [y/N] "
	MsgBdayToday       = "Birthday found today"
	MsgRevisionBumped  = "Revision stamp advanced"
	MsgRevisionLoaded  = "Revision stamp read"
	MsgGiftsLoadFailed = "Stored gift ideas unreadable, starting empty"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyCount     = "count"
	LogKeyName      = "name"
	LogKeyRecordID  = "record_id"
	LogKeyNotifID   = "notification_id"
	LogKeyFireAt    = "fire_at"
	LogKeyRevision  = "revision"
	LogKeyReason    = "reason"
	LogKeyPath      = "path"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyValue     = "value"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompStore   = "store"
	CompCipher  = "cipher"
	CompNotify  = "notify"
	CompServer  = "server"
	CompBackup  = "backup"
	CompUpdate  = "update"
	CompI18n    = "i18n"
	CompCLI     = "cli"
	CompEngine  = "engine"
	CompGateway = "gateway"
)
