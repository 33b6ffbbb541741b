package records

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"xdao.co/shellcat/fault"
)

// Write serializes all shell records, then all chicken records, to w.
func Write(w io.Writer, shells []Shell, chickens []Chicken) error {
	bw := bufio.NewWriter(w)
	for _, s := range shells {
		if err := writeLine(bw, s.fields()); err != nil {
			return err
		}
	}
	for _, c := range chickens {
		if err := writeLine(bw, c.fields()); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fault.Wrap(fault.KindOutput, fault.RuleWrite, "flush records", err)
	}
	return nil
}

// WriteTypes writes the informational summary lines:
//
//	shell_type|<asset_type>
//	chicken_type|<object_name>
func WriteTypes(w io.Writer, assetTypes, chickenTypes []string) error {
	bw := bufio.NewWriter(w)
	for _, t := range assetTypes {
		if err := writeLine(bw, []string{"shell_type", t}); err != nil {
			return err
		}
	}
	for _, t := range chickenTypes {
		if err := writeLine(bw, []string{"chicken_type", t}); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fault.Wrap(fault.KindOutput, fault.RuleWrite, "flush types", err)
	}
	return nil
}

// WriteFile replaces path with the records. The content is written to a
// temporary file in the same directory and renamed into place, so a failed
// write leaves any previous file untouched.
func WriteFile(path string, shells []Shell, chickens []Chicken) error {
	return ReplaceFile(path, func(w io.Writer) error { return Write(w, shells, chickens) })
}

// WriteTypesFile replaces path with the summary lines.
func WriteTypesFile(path string, assetTypes, chickenTypes []string) error {
	return ReplaceFile(path, func(w io.Writer) error { return WriteTypes(w, assetTypes, chickenTypes) })
}

// ReplaceFile writes path through a temporary file in the same directory
// and renames it into place. On any error the previous file is untouched.
func ReplaceFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fault.Wrap(fault.KindOutput, fault.RuleWrite, "create "+path, err)
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fault.Wrap(fault.KindOutput, fault.RuleWrite, "close "+path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fault.Wrap(fault.KindOutput, fault.RuleWrite, "chmod "+path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fault.Wrap(fault.KindOutput, fault.RuleWrite, "replace "+path, err)
	}
	return nil
}

func writeLine(w *bufio.Writer, fields []string) error {
	if _, err := w.WriteString(strings.Join(fields, Delimiter) + "\n"); err != nil {
		return fault.Wrap(fault.KindOutput, fault.RuleWrite, "write record", err)
	}
	return nil
}
