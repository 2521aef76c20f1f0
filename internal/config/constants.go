package config

// Attribute names with positional meaning.
const (
	DimAttr      = "dim"
	NamesAttr    = "names"
	DimNamesAttr = "dimnames"
	ClassAttr    = "class"
	RowNamesAttr = "row.names"
	SrcRefAttr   = "srcref"
)

// ConfigFileNames are searched, in order, in each directory by FindConfig.
var ConfigFileNames = []string{"vcore.yaml", "vcore.yml", "vcore.toml"}

// Access session defaults.
const (
	// DefaultAccessCacheLimit is how many specialised accessors an access
	// site keeps before it switches to the generic path for good.
	DefaultAccessCacheLimit = 4
	MaxAccessCacheLimit     = 64
)

// Coercion warning messages.
const (
	WarnNAIntroduced      = "NAs introduced by coercion"
	WarnImaginaryDropped  = "imaginary parts discarded in coercion"
	WarnRawOutOfRange     = "out-of-range values treated as 0 in coercion to raw"
	WarnIntegerOverflowNA = "NAs introduced by coercion to integer range"
)

// Logical literals accepted when coercing strings.
var (
	TrueStrings  = []string{"TRUE", "true", "True", "T"}
	FalseStrings = []string{"FALSE", "false", "False", "F"}
)
