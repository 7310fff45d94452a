package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"

	"github.com/charlev/mep/internal/logger"
)

const (
	// EntryName is the fixed top-level entry under which the source is
	// archived, regardless of its on-disk basename. The remote swap relies
	// on this name to rename the extracted tree without inspecting it.
	EntryName = "compressed_file"

	// Extension is the artifact filename suffix.
	Extension = ".tar.bz2"
)

// ArtifactName is the basename of the artifact created next to the source.
const ArtifactName = EntryName + Extension

// Compress packages the file or directory at localPath into a bzip2-compressed
// tar artifact in the source's parent directory and returns the artifact path.
// The source must exist; callers validate that before any side effect.
func Compress(ctx context.Context, localPath string) (string, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}

	if info.IsDir() {
		logger.InfoKV(ctx, "Compressing the directory", "path", localPath)
	} else {
		logger.InfoKV(ctx, "Compressing the file", "path", localPath)
	}

	artifactPath := filepath.Join(filepath.Dir(localPath), ArtifactName)

	out, err := os.Create(filepath.Clean(artifactPath))
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}

	if err = writeArchive(out, localPath, info); err != nil {
		_ = out.Close()
		// Best-effort removal of the partial artifact.
		_ = os.Remove(artifactPath)

		return "", err
	}

	if err = out.Close(); err != nil {
		_ = os.Remove(artifactPath)

		return "", fmt.Errorf("close artifact: %w", err)
	}

	return artifactPath, nil
}

// writeArchive streams the source through tar and bzip2 into out.
func writeArchive(out io.Writer, localPath string, info os.FileInfo) error {
	bw, err := bzip2.NewWriter(out, &bzip2.WriterConfig{Level: bzip2.DefaultCompression})
	if err != nil {
		return fmt.Errorf("initialize bzip2 writer: %w", err)
	}

	tw := tar.NewWriter(bw)

	if info.IsDir() {
		err = addTree(tw, localPath)
	} else {
		err = addEntry(tw, localPath, info, EntryName)
	}

	if err != nil {
		return err
	}

	if err = tw.Close(); err != nil {
		return fmt.Errorf("finalize tar stream: %w", err)
	}

	if err = bw.Close(); err != nil {
		return fmt.Errorf("finalize bzip2 stream: %w", err)
	}

	return nil
}

// addTree walks the directory and archives every entry under EntryName.
func addTree(tw *tar.Writer, root string) error {
	return filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}

		name := EntryName
		if rel != "." {
			name = path.Join(EntryName, filepath.ToSlash(rel))
		}

		return addEntry(tw, p, info, name)
	})
}

// addEntry writes one tar header (and file contents for regular files).
func addEntry(tw *tar.Writer, p string, info os.FileInfo, name string) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("build tar header for %s: %w", p, err)
	}

	header.Name = name
	if info.IsDir() {
		header.Name += "/"
	}

	if err = tw.WriteHeader(header); err != nil {
		return fmt.Errorf("write tar header for %s: %w", name, err)
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(filepath.Clean(p))
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}

	defer func() {
		_ = f.Close()
	}()

	if _, err = io.Copy(tw, f); err != nil {
		return fmt.Errorf("archive %s: %w", p, err)
	}

	return nil
}
