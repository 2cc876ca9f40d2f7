package web

import (
	"embed"
	"io/fs"
	"net/http"
)

var (
	//go:embed static/*
	embeddedStaticFiles embed.FS

	//go:embed templates/*
	embeddedTemplates embed.FS
)

// subFS roots an embedded tree at dir. The directories are fixed at build
// time, so a failure here is a programming error.
func subFS(files embed.FS, dir string) http.FileSystem {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

func templatesFS() http.FileSystem {
	return subFS(embeddedTemplates, "templates")
}

func staticFS() http.FileSystem {
	return subFS(embeddedStaticFiles, "static")
}
