package model

// Path represents a file system path.
type Path string

// Language identifies the grammar a source unit is parsed with.
type Language string

const (
	// LanguageJavaScript is used for the compiled program.
	LanguageJavaScript Language = "javascript"
	// LanguageTypeScript is used for the declaration corpus.
	LanguageTypeScript Language = "typescript"
)

// File represents a source unit read from disk.
type File struct {
	Path    Path
	Hash    string
	Content []byte
}

// DeclarationUnit is one file of the declaration corpus.
type DeclarationUnit struct {
	// Module is the declaration-module identifier, the file name without its
	// declaration extension.
	Module string
	File   File
}
