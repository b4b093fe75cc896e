package cli

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig      = "config"
	FlagCatalog     = "catalog"
	FlagNoColor     = "no-color"
	FlagQuiet       = "quiet"
	FlagDebug       = "debug"
	FlagNew         = "new"
	FlagName        = "name"
	FlagTemplate    = "template"
	FlagGit         = "git"
	FlagClearReadme = "clear-readme"
	FlagDryRun      = "dry-run"
	FlagForce       = "force"
	FlagConflict    = "conflict"

	// Flag descriptions
	DescConfig      = "Path to config file (default $XDG_CONFIG_HOME/tpick/config.yaml)"
	DescCatalog     = "Catalog location (github:owner/repo[@ref], git+https://host/repo.git, ./dir); its root must hold the templates.json index"
	DescNoColor     = "Disable colored output"
	DescQuiet       = "Suppress non-error output"
	DescDebug       = "Enable debug logging"
	DescNew         = "Create a new project directory with this name"
	DescName        = "Project name substituted for project_name (default: directory name)"
	DescTemplate    = "Template id to use without prompting"
	DescGit         = "Initialize a git repository in the destination"
	DescClearReadme = "Replace the template README.md with a title line"
	DescDryRun      = "Show actions without writing files"
	DescForce       = "Overwrite existing files (same as --conflict overwrite)"
	DescConflict    = "Policy for existing files: skip, overwrite, ask, fail"
)
