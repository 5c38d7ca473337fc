package diag

type Note struct {
	Path string
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Path     string
	Notes    []Note
}

func New(sev Severity, code Code, path, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Path:     path,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(path, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Path: path, Msg: msg})
	return d
}
