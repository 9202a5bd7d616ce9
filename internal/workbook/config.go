package workbook

// Config holds settings for decoding the schedule export.
type Config struct {
	// Delimiter separates fields in CSV schedule exports.
	Delimiter string `mapstructure:"delimiter" default:";"`
	// SkipRows is the number of leading title rows to drop.
	SkipRows int `mapstructure:"skip_rows" default:"1"`
}

// OutputConfig holds settings for the produced workbook.
type OutputConfig struct {
	// Dir is the directory the workbook is written to.
	Dir string `mapstructure:"dir" default:"."`
	// Name is the preferred file name; a numeric suffix is added when taken.
	Name string `mapstructure:"name" default:"Processed_Data.xlsx"`
}
