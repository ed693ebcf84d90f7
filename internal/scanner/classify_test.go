package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Demwunz/topo/internal/model"
)

func TestClassifyRoleTestPaths(t *testing.T) {
	assert.Equal(t, model.RoleTest, classifyRole("internal/widget/widget_test.go", &ignorePolicy{}, false))
	assert.Equal(t, model.RoleTest, classifyRole("tests/fixtures/thing.py", &ignorePolicy{}, false))
	assert.Equal(t, model.RoleTest, classifyRole("src/__tests__/App.test.tsx", &ignorePolicy{}, false))
}

func TestClassifyRoleConfigAndDocs(t *testing.T) {
	assert.Equal(t, model.RoleConfig, classifyRole("config/app.yaml", &ignorePolicy{}, false))
	assert.Equal(t, model.RoleDocs, classifyRole("README.md", &ignorePolicy{}, false))
}

func TestClassifyRoleBuildManifest(t *testing.T) {
	assert.Equal(t, model.RoleBuild, classifyRole("go.mod", &ignorePolicy{}, false))
	// package.json carries a config extension, and the config rule runs
	// before the build-manifest rule.
	assert.Equal(t, model.RoleConfig, classifyRole("package.json", &ignorePolicy{}, false))
}

func TestClassifyRoleDefaultsToImpl(t *testing.T) {
	assert.Equal(t, model.RoleImpl, classifyRole("internal/widget/widget.go", &ignorePolicy{}, false))
}

func TestClassifyRoleLargeNonSourceIsGenerated(t *testing.T) {
	assert.Equal(t, model.RoleGenerated, classifyRole("blob/data", &ignorePolicy{}, true))
}

func TestClassifyRoleGeneratedPathViaPolicy(t *testing.T) {
	p := &ignorePolicy{generatedDirs: map[string]bool{}}
	assert.Equal(t, model.RoleGenerated, classifyRole("vendor/github.com/foo/bar.go", p, false))
	assert.Equal(t, model.RoleGenerated, classifyRole("pkg.pb.go", p, false))
}

func TestClassifyLanguageByExtension(t *testing.T) {
	lang := classifyLanguage("main.go", []byte("package main\n\nfunc main() {}\n"))
	assert.Equal(t, "go", lang)
}

func TestClassifyLanguageShebangFallback(t *testing.T) {
	lang := classifyLanguage("runme", []byte("#!/usr/bin/env python\nprint('hi')\n"))
	assert.Equal(t, "python", lang)
}

func TestSniffShebangVariants(t *testing.T) {
	assert.Equal(t, "shell", sniffShebang([]byte("#!/bin/bash\necho hi\n")))
	assert.Equal(t, "ruby", sniffShebang([]byte("#!/usr/bin/env ruby\n")))
	assert.Equal(t, "", sniffShebang([]byte("no shebang here\n")))
}
