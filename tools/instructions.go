package tools

// Instructions explains the tour format and tool conventions to a model.
const Instructions = `Tools for authoring CodeTour files (.tour): JSON documents with a title, an optional description and an ordered list of steps.

Each step has a file, a description, an optional title and at most one location: a line number, a pattern (regular expression matched in the file) or a directory.

Tours are addressed by path; create_tour can derive the path from the title. Step indices are 0-based. Use list_steps to see a tour's current order before inserting, updating or removing steps.

Failed calls return a JSON error with a code such as ERR_NOT_FOUND or ERR_INDEX_OUT_OF_RANGE.`
