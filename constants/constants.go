package constants

const (
	DefaultThreadCount   = 3
	DefaultSchemaVersion = "2024_01"
	DefaultInputRoot     = "input"
	DefaultMetadataPath  = "output/metadata"
	// DefaultProcessedPath receives the missing metadata report
	DefaultProcessedPath = "output/processed_metadata"
	ParquetFileExt       = "parquet"
	DocumentFileExt      = ".json"
	ReportFileSuffix     = "report.json"
	// PrimaryTable is the artifact suffix of the table holding every scalar field
	PrimaryTable = "one_level_data"
	// MaxLineSize bounds a single document line; dumps carry records of a few MB at most
	MaxLineSize = 64 * 1024 * 1024

	// foreign-key triad linking a child row to its primary record
	RPID        = "rp_id"
	RPType      = "rp_type"
	RPPublisher = "rp_publisher"

	RecordID        = "id"
	RecordType      = "type"
	RecordPublisher = "publisher"

	// settings keys, read through viper from env / .env
	LogLevel              = "LOG_LEVEL"
	ConfigFolder          = "CONFIG_FOLDER"
	SchemaVersion         = "SCHEMA_VERSION"
	InputPath             = "INPUT_PATH"
	DatasetPath           = "DATASET_PATH"
	PublicationPath       = "PUBLICATION_PATH"
	SoftwarePath          = "SOFTWARE_PATH"
	OtherRPPath           = "OTHER_RP_PATH"
	MetadataPath          = "METADATA_PATH"
	ProcessedMetadataPath = "PROCESSED_METADATA_PATH"
	NestedFields          = "NESTED_FIELDS"
	FileExtensions        = "FILE_EXTENSIONS"
	ExcludeColumns        = "EXCLUDE_COLUMNS"
	MaxThreads            = "MAX_THREADS"
	EnvFile               = ".env"
	MissingDataReport     = "missing_data.csv"
)

// research product collections shipped in a dump
const (
	Software    = "software"
	OtherRP     = "other_rp"
	Dataset     = "dataset"
	Publication = "publication"
)

// DefaultNestedFields are the research product fields decomposed into their own tables
var DefaultNestedFields = []string{
	"affiliation",
	"author",
	"bestaccessright",
	"container",
	"context",
	"country",
	"eoscif",
	"geolocation",
	"indicator",
	"instance",
	"language",
	"pid",
	"projects",
	"relations",
	"subject",
}

// DefaultExcludeColumns are skipped by the missing metadata analysis
var DefaultExcludeColumns = []string{"id", "folder_name", "file_name"}
