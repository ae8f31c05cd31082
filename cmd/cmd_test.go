package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sergev/dsk2dc/dc42"
)

var fixedTime = time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

// runCommand executes the root command with args in an isolated home
// directory and returns its standard output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := runCommandOutput(t, args...)
	return stdout, err
}

// runCommandOutput is runCommand that also returns standard error.
func runCommandOutput(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("USERPROFILE", os.Getenv("HOME"))
	oldNow := now
	now = func() time.Time { return fixedTime }
	t.Cleanup(func() { now = oldNow })

	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRaw(t *testing.T, dir, filename string, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 253)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestConvertDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	src := writeRaw(t, dir, "Test.dsk", 409600)

	stdout, err := runCommand(t, "convert", src)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	if !strings.Contains(stdout, "Successfully converted") {
		t.Errorf("unexpected output: %q", stdout)
	}

	out, err := os.ReadFile(filepath.Join(dir, "Test.dc42"))
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if len(out) != 409684 {
		t.Errorf("output length = %d, expected 409684", len(out))
	}
	d, err := dc42.Verify(out)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if d.Header.Name != "Test" || d.MacBinary != nil {
		t.Errorf("decoded header = %+v", d.Header)
	}
}

func TestConvertMacBinary(t *testing.T) {
	dir := t.TempDir()
	src := writeRaw(t, dir, "source.img", 819200)
	dest := filepath.Join(dir, "wrapped.bin")

	_, err := runCommand(t, "convert", "--macbinary", "--verify", "--name", "Utilities", "-o", dest, src)
	if err != nil {
		t.Fatalf("convert error: %v", err)
	}
	out, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if len(out)%128 != 0 {
		t.Errorf("output length %d is not a multiple of 128", len(out))
	}
	d, err := dc42.Verify(out)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if d.MacBinary == nil || d.MacBinary.Name != "Utilities" {
		t.Fatalf("MacBinary header missing or wrong: %+v", d.MacBinary)
	}
	if d.MacBinary.Created != dc42.MacTime(fixedTime) {
		t.Errorf("created = %d, expected %d", d.MacBinary.Created, dc42.MacTime(fixedTime))
	}
}

func TestConvertGzipSource(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(make([]byte, 1474560)); err != nil {
		t.Fatalf("gzip Write() error: %v", err)
	}
	w.Close()
	src := filepath.Join(dir, "HD.dsk.gz")
	if err := os.WriteFile(src, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	dest := filepath.Join(dir, "HD.dc42")

	if _, err := runCommand(t, "convert", "-o", dest, src); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	out, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if out[0] != 2 || string(out[1:3]) != "HD" {
		t.Errorf("disk name = %q", out[1:1+int(out[0])])
	}
	if dc42.Encoding(out[80]) != dc42.MFM1440K {
		t.Errorf("encoding = 0x%02X", out[80])
	}
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	badSize := writeRaw(t, dir, "odd.dsk", 1000)
	good := writeRaw(t, dir, "good.dsk", 409600)
	dest := filepath.Join(dir, "never.dc42")

	_, err := runCommand(t, "convert", "-o", dest, badSize)
	if !errors.Is(err, dc42.ErrUnsupportedSize) {
		t.Errorf("convert of 1000-byte image error = %v, expected ErrUnsupportedSize", err)
	}

	_, err = runCommand(t, "convert", "-o", dest, "--name", strings.Repeat("x", 64), good)
	if !errors.Is(err, dc42.ErrNameTooLong) {
		t.Errorf("convert with long name error = %v, expected ErrNameTooLong", err)
	}

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("output written despite errors")
	}

	if _, err := runCommand(t, "convert", filepath.Join(dir, "already.dc42")); err == nil {
		t.Errorf("convert of a .dc42 source succeeded")
	}
	if _, err := runCommand(t, "convert", filepath.Join(dir, "missing.dsk")); err == nil {
		t.Errorf("convert of missing file succeeded")
	}
}

func TestConvertUsesConfig(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	outDir := t.TempDir()
	src := writeRaw(t, dir, "Cfg.dsk", 737280)
	config := "macbinary = true\noutput_dir = '" + filepath.ToSlash(outDir) + "'\n"
	if err := os.WriteFile(filepath.Join(home, ".dsk2dc"), []byte(config), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	var stdout bytes.Buffer
	rootCmd := newRootCmd()
	t.Setenv("HOME", home)
	rootCmd.SetArgs([]string{"convert", src})
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("convert error: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(outDir, "Cfg.bin"))
	if err != nil {
		t.Fatalf("output not written to configured directory: %v", err)
	}
	if len(out)%128 != 0 {
		t.Errorf("output is not MacBinary-sized: %d", len(out))
	}
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	src := writeRaw(t, dir, "Info.dsk", 409600)
	dest := filepath.Join(dir, "Info.bin")
	if _, err := runCommand(t, "convert", "--macbinary", "-o", dest, src); err != nil {
		t.Fatalf("convert error: %v", err)
	}

	stdout, err := runCommand(t, "info", dest)
	if err != nil {
		t.Fatalf("info error: %v", err)
	}
	for _, want := range []string{
		"MacBinary:",
		"Type/Creator: dImg/dCpy",
		"Disk Name: Info",
		"Data Size: 409600 bytes",
		"Encoding: GCR 400K",
		"Format Byte: 0x02",
		"Checksum Status: OK",
		"Created: 2025-06-15 08:00:00 UTC",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("info output missing %q:\n%s", want, stdout)
		}
	}
}

func TestInfoChecksumMismatch(t *testing.T) {
	dir := t.TempDir()
	src := writeRaw(t, dir, "Bad.dsk", 409600)
	dest := filepath.Join(dir, "Bad.dc42")
	if _, err := runCommand(t, "convert", "-o", dest, src); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	out, _ := os.ReadFile(dest)
	out[dc42.HeaderSize] ^= 0xFF
	if err := os.WriteFile(dest, out, 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	stdout, err := runCommand(t, "info", dest)
	if !errors.Is(err, dc42.ErrChecksumMismatch) {
		t.Errorf("info error = %v, expected ErrChecksumMismatch", err)
	}
	if !strings.Contains(stdout, "MISMATCH") {
		t.Errorf("info output does not report mismatch:\n%s", stdout)
	}
}

func TestBlank(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "Empty.dc42")
	stdout, err := runCommand(t, "blank", "--size", "1440K", "-o", dest, "Empty")
	if err != nil {
		t.Fatalf("blank error: %v", err)
	}
	if !strings.Contains(stdout, "1440k") {
		t.Errorf("unexpected output: %q", stdout)
	}
	out, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	d, err := dc42.Verify(out)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if d.Header.DataSize != 1474560 || d.Header.DataChecksum != 0 || d.Header.Name != "Empty" {
		t.Errorf("header = %+v", d.Header)
	}

	if _, err := runCommand(t, "blank", "--size", "2880k", "X"); err == nil {
		t.Errorf("blank with unknown size succeeded")
	}
}

func TestSupportedSizesText(t *testing.T) {
	text := supportedSizesText()
	for _, want := range []string{"400k", "720k", "800k", "1440k", "1474560"} {
		if !strings.Contains(text, want) {
			t.Errorf("supportedSizesText() missing %q", want)
		}
	}
}

func TestConvertNameEncodedAsASCII(t *testing.T) {
	dir := t.TempDir()
	src := writeRaw(t, dir, "src.dsk", 409600)
	dest := filepath.Join(dir, "named.dc42")

	if _, err := runCommand(t, "convert", "--name", "Café", "-o", dest, src); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	out, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if out[0] != 4 {
		t.Errorf("name length = %d, expected 4", out[0])
	}
	if !bytes.Equal(out[1:5], []byte{0x43, 0x61, 0x66, 0x3F}) {
		t.Errorf("name bytes = % X, expected 43 61 66 3F", out[1:5])
	}
}

func TestErrorReportedOnce(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nonexist.dsk")
	_, stderr, err := runCommandOutput(t, "convert", missing)
	if err == nil {
		t.Fatalf("convert of missing file succeeded")
	}
	if stderr != "" {
		t.Errorf("command printed the error itself: %q", stderr)
	}
	if n := strings.Count(err.Error(), "failed to read file"); n != 1 {
		t.Errorf("error %q repeats its prefix %d times", err, n)
	}
}

func TestConvertVerifyKeepsOutputSize(t *testing.T) {
	dir := t.TempDir()
	src := writeRaw(t, dir, "Check.dsk", 737280)
	dest := filepath.Join(dir, "Check.bin")

	if _, err := runCommand(t, "convert", "--macbinary", "--verify", "-o", dest, src); err != nil {
		t.Fatalf("convert error: %v", err)
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	// 128 + 84 + 737280 + 44 bytes of padding
	if info.Size() != 737536 {
		t.Errorf("output size = %d, expected 737536", info.Size())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("unexpected files left in %s: %d entries", dir, len(entries))
	}
}
