package packager

import (
	"archive/tar"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/cargo-acap/pkg/errors"
	"github.com/arthur-debert/cargo-acap/pkg/logging"
	"github.com/klauspost/pgzip"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"lukechampine.com/blake3"
)

// EAPBuilder assembles the staging directory and archives it as an .eap file
// placed next to the staging directory.
type EAPBuilder struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewEAPBuilder creates an EAPBuilder working on fs.
func NewEAPBuilder(fs afero.Fs) *EAPBuilder {
	return &EAPBuilder{
		fs:     fs,
		logger: logging.GetLogger("packager.eap"),
	}
}

type manifestSetup struct {
	AcapPackageConf struct {
		Setup struct {
			AppName string `json:"appName"`
			Version string `json:"version"`
		} `json:"setup"`
	} `json:"acapPackageConf"`
}

// Pack implements Packager
func (b *EAPBuilder) Pack(ctx context.Context, in Inputs) (string, error) {
	done := logging.LogOperationStart(b.logger, "pack "+in.AppName)
	defer done()

	if in.StagingDir == "" || in.AppName == "" {
		return "", errors.New(errors.ErrPackaging, "staging directory and app name are required")
	}

	if in.SDKLocation != "" {
		info, err := b.fs.Stat(in.SDKLocation)
		if err != nil || !info.IsDir() {
			return "", errors.Newf(errors.ErrPackaging, "SDK location %q is not a directory", in.SDKLocation).
				WithDetail("sdk_location", in.SDKLocation)
		}
		b.logger.Debug().Str("sdk_location", in.SDKLocation).Msg("Using SDK location override")
	}

	if err := b.stage(in); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	eapPath := filepath.Join(filepath.Dir(in.StagingDir), b.archiveName(in))
	if err := b.writeArchive(in.StagingDir, eapPath); err != nil {
		return "", errors.Wrapf(err, errors.ErrPackaging, "writing %s", eapPath).
			WithDetail("path", eapPath)
	}

	digest, err := b.digest(eapPath)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrPackaging, "hashing %s", eapPath)
	}

	b.logger.Info().
		Str("app", in.AppName).
		Str("arch", in.Architecture.Nickname()).
		Str("path", eapPath).
		Str("blake3", digest).
		Msg("Created application package")

	return eapPath, nil
}

// stage copies every input into the staging directory using the layout
// the device expects: the executable named after the app at the root,
// additional files merged into the root, lib/ and html/ kept as is.
func (b *EAPBuilder) stage(in Inputs) error {
	if err := b.fs.MkdirAll(in.StagingDir, 0o755); err != nil {
		return errors.Wrapf(err, errors.ErrPackaging, "creating staging directory %s", in.StagingDir)
	}

	files := []struct {
		src, name string
		mode      os.FileMode
	}{
		{in.Executable, in.AppName, 0o755},
		{in.Manifest, "manifest.json", 0o644},
		{in.License, "LICENSE", 0o644},
	}
	for _, f := range files {
		dst := filepath.Join(in.StagingDir, f.name)
		if err := b.copyFile(f.src, dst, f.mode); err != nil {
			return errors.Wrapf(err, errors.ErrPackaging, "copying %s", f.src).
				WithDetail("source", f.src).
				WithDetail("destination", dst)
		}
	}

	dirs := []struct{ src, dst string }{
		{in.AdditionalFiles, in.StagingDir},
		{in.Lib, filepath.Join(in.StagingDir, "lib")},
		{in.HTML, filepath.Join(in.StagingDir, "html")},
	}
	for _, d := range dirs {
		if d.src == "" {
			continue
		}
		if err := b.copyTree(d.src, d.dst); err != nil {
			return errors.Wrapf(err, errors.ErrPackaging, "copying %s", d.src).
				WithDetail("source", d.src)
		}
	}
	return nil
}

func (b *EAPBuilder) archiveName(in Inputs) string {
	arch := in.Architecture.Nickname()
	if version := b.manifestVersion(in.Manifest); version != "" {
		return fmt.Sprintf("%s_%s_%s.eap", in.AppName, version, arch)
	}
	return fmt.Sprintf("%s_%s.eap", in.AppName, arch)
}

// manifestVersion returns the version declared by the manifest, or "" when
// it cannot be read. Validating the manifest is not our concern.
func (b *EAPBuilder) manifestVersion(path string) string {
	data, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return ""
	}
	var m manifestSetup
	if err := json.Unmarshal(data, &m); err != nil {
		b.logger.Debug().Err(err).Str("manifest", path).Msg("Manifest is not readable JSON, omitting version")
		return ""
	}
	return m.AcapPackageConf.Setup.Version
}

func (b *EAPBuilder) copyFile(src, dst string, mode os.FileMode) error {
	in, err := b.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := b.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	out, err := b.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (b *EAPBuilder) copyTree(src, dst string) error {
	return afero.Walk(b.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return b.fs.MkdirAll(target, 0o755)
		}
		return b.copyFile(path, target, info.Mode().Perm())
	})
}

func (b *EAPBuilder) writeArchive(root, eapPath string) error {
	outFile, err := b.fs.Create(eapPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	zw := pgzip.NewWriter(outFile)
	tw := tar.NewWriter(zw)

	err = afero.Walk(b.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		hdr.Uid, hdr.Gid = 0, 0
		hdr.Uname, hdr.Gname = "root", "root"

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		f, err := b.fs.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}

	if err := tw.Close(); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return outFile.Close()
}

func (b *EAPBuilder) digest(path string) (string, error) {
	f, err := b.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
