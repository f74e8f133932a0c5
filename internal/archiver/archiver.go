// Package archiver materializes resolved packages as zip archives: a clean
// staging directory per package, member files copied into the configured
// subdirectory layout, a generated readme, and a deterministic archive name.
package archiver

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/deps"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// stagingDirName is the transient working directory inside the output dir
const stagingDirName = ".staging"

// Archiver writes package archives into the configured output directory
type Archiver struct {
	cfg  *config.Config
	snap *deps.Snapshot
}

// New creates an Archiver over a configuration and snapshot
func New(cfg *config.Config, snap *deps.Snapshot) *Archiver {
	return &Archiver{cfg: cfg, snap: snap}
}

// stagingRoot returns the staging directory path
func (a *Archiver) stagingRoot() string {
	return filepath.Join(a.cfg.Output.Dir, stagingDirName)
}

// ArchivePath returns the deterministic archive path for a package name
func (a *Archiver) ArchivePath(pkgName string) string {
	return filepath.Join(a.cfg.Output.Dir, pkgName+".zip")
}

// Clean removes prior archives and stale staging directories from earlier
// runs, so a rebuild never leaves duplicate or stale artifacts behind.
func (a *Archiver) Clean() error {
	if err := os.MkdirAll(a.cfg.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := os.ReadDir(a.cfg.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}
	for _, entry := range entries {
		path := filepath.Join(a.cfg.Output.Dir, entry.Name())
		switch {
		case entry.IsDir() && entry.Name() == stagingDirName:
			if err := os.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to remove stale staging directory: %w", err)
			}
		case !entry.IsDir() && strings.HasSuffix(entry.Name(), ".zip"):
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to remove prior archive %s: %w", entry.Name(), err)
			}
		}
	}

	return nil
}

// Sweep removes the staging directory after all archives are produced,
// leaving archives plus the manifest as the only durable output.
func (a *Archiver) Sweep() error {
	if err := os.RemoveAll(a.stagingRoot()); err != nil {
		return fmt.Errorf("failed to remove staging directory: %w", err)
	}
	return nil
}

// Archive materializes one resolved package and compresses it. Returns the
// archive path. Failure leaves no partial archive behind.
func (a *Archiver) Archive(pkg models.ResolvedPackage) (string, error) {
	stageDir := filepath.Join(a.stagingRoot(), pkg.Name)
	if err := os.RemoveAll(stageDir); err != nil {
		return "", fmt.Errorf("failed to reset staging for %s: %w", pkg.Name, err)
	}

	if err := a.stage(pkg, stageDir); err != nil {
		os.RemoveAll(stageDir)
		return "", err
	}

	archivePath := a.ArchivePath(pkg.Name)
	if err := zipDirectory(stageDir, archivePath); err != nil {
		os.RemoveAll(stageDir)
		return "", err
	}

	if err := os.RemoveAll(stageDir); err != nil {
		return archivePath, fmt.Errorf("failed to remove staging for %s: %w", pkg.Name, err)
	}

	return archivePath, nil
}

// stage copies the package's members into the fixed subdirectory layout
// and writes the generated readme
func (a *Archiver) stage(pkg models.ResolvedPackage, stageDir string) error {
	shaderDir := filepath.Join(stageDir, a.cfg.Output.ShaderSubdir)
	if err := os.MkdirAll(shaderDir, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	for _, name := range pkg.Files {
		file, ok := a.snap.Files[name]
		if !ok {
			// Members were filtered to the scanned set during resolution
			return fmt.Errorf("member %q missing from snapshot", name)
		}
		src := filepath.Join(a.cfg.Source.Root, filepath.FromSlash(file.RelPath))
		if err := copyFile(src, filepath.Join(shaderDir, name)); err != nil {
			return fmt.Errorf("failed to stage %s: %w", name, err)
		}
	}

	if pkg.HasTextures() {
		textureDir := filepath.Join(stageDir, a.cfg.Output.TextureSubdir)
		if err := os.MkdirAll(textureDir, 0755); err != nil {
			return fmt.Errorf("failed to create texture staging directory: %w", err)
		}
		for _, name := range pkg.Textures.Files {
			tex, ok := a.snap.Textures[name]
			if !ok {
				return fmt.Errorf("texture %q missing from snapshot", name)
			}
			src := filepath.Join(a.cfg.Textures.Dir, filepath.FromSlash(tex.RelPath))
			if err := copyFile(src, filepath.Join(textureDir, name)); err != nil {
				return fmt.Errorf("failed to stage texture %s: %w", name, err)
			}
		}
	}

	readme := a.renderReadme(pkg)
	readmePath := filepath.Join(stageDir, a.cfg.Output.ReadmeName)
	if err := os.WriteFile(readmePath, []byte(readme), 0644); err != nil {
		return fmt.Errorf("failed to write readme: %w", err)
	}

	return nil
}

// renderReadme substitutes the template placeholders for one package
func (a *Archiver) renderReadme(pkg models.ResolvedPackage) string {
	textureNote := "This package includes no texture files."
	if pkg.HasTextures() {
		textureNote = fmt.Sprintf("This package includes %d texture file(s) in the %s folder.",
			pkg.Textures.Count, a.cfg.Output.TextureSubdir)
	}

	replacer := strings.NewReplacer(
		"{version}", pkg.Version,
		"{description}", pkg.Description,
		"{textureNote}", textureNote,
		"{supportUrl}", a.cfg.SupportURL,
	)
	return replacer.Replace(a.cfg.Output.ReadmeTemplate)
}

// copyFile copies src to dst, truncating any existing dst
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// zipDirectory compresses the contents of dir into a single zip archive.
// Entry names are forward-slash relative paths under dir. On failure the
// partial archive is removed.
func zipDirectory(dir, archivePath string) error {
	zipFile, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", archivePath, err)
	}

	zipWriter := zip.NewWriter(zipFile)

	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir || d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := zipWriter.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create archive entry: %w", err)
		}

		in, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		defer in.Close()

		if _, err := io.Copy(writer, in); err != nil {
			return fmt.Errorf("failed to write entry %s: %w", rel, err)
		}
		return nil
	})

	if walkErr != nil {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(archivePath)
		return fmt.Errorf("failed to pack %s: %w", archivePath, walkErr)
	}

	if err := zipWriter.Close(); err != nil {
		zipFile.Close()
		os.Remove(archivePath)
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := zipFile.Close(); err != nil {
		os.Remove(archivePath)
		return fmt.Errorf("failed to close archive: %w", err)
	}

	return nil
}
