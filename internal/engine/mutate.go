package engine

// Replace splices reflowed in place of r.
func Replace(fileLines []string, r LineRange, reflowed []string) []string {
	out := make([]string, 0, len(fileLines)-(r.End-r.Start+1)+len(reflowed))
	out = append(out, fileLines[:r.Start]...)
	out = append(out, reflowed...)
	out = append(out, fileLines[r.End+1:]...)
	return out
}

// Delete removes r.
func Delete(fileLines []string, r LineRange) []string {
	out := make([]string, 0, len(fileLines)-(r.End-r.Start+1))
	out = append(out, fileLines[:r.Start]...)
	out = append(out, fileLines[r.End+1:]...)
	return out
}

// InsertAfter inserts reflowed directly after r's last line.
func InsertAfter(fileLines []string, r LineRange, reflowed []string) []string {
	out := make([]string, 0, len(fileLines)+len(reflowed))
	out = append(out, fileLines[:r.End+1]...)
	out = append(out, reflowed...)
	out = append(out, fileLines[r.End+1:]...)
	return out
}

// InsertBefore inserts reflowed directly before r's first line (spec
// §4.5 INSERT_BEFORE).
func InsertBefore(fileLines []string, r LineRange, reflowed []string) []string {
	out := make([]string, 0, len(fileLines)+len(reflowed))
	out = append(out, fileLines[:r.Start]...)
	out = append(out, reflowed...)
	out = append(out, fileLines[r.Start:]...)
	return out
}

// CreateFileLines splits a CREATE_FILE's content into lines with no
// indentation reflow.
func CreateFileLines(content string) []string {
	return splitLines(content)
}
