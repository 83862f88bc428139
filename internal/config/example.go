package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# ganttd configuration file
# Values can be overridden by environment variables (GANTTD_*) or CLI flags

# Input dataset (CSV or JSON array of objects)
input_file = "tasks.csv"

# Input format: "csv" or "json" (default: sniff the file extension)
# input_format = "csv"

# What to do when two rows share an id: "rename" or "skip"
duplicate_id_policy = "rename"

# Maximum tasks in the output (0 = unlimited)
max_tasks = 0

# Output ordering: start_date, end_date, name, duration,
# dependency_count or topological
sort_by = "start_date"

# Group tasks by these columns before rendering
# group_by = ["team"]

# Derive expected progress from today's date
show_expected_progress = false

# HTTP server binding (ganttd serve)
host = "127.0.0.1"
port = 8080

# Logging
log_level = "info"
log_format = "text"
log_timestamps = false
log_caller = false

# Column mapping: id, start and end are required
[columns]
id = "id"
name = "name"
start = "start"
end = "end"
# progress = "progress"
# dependencies = "depends_on"
# color = "team"
# tooltip = ["owner", "notes"]
`
}
