package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// checkInputPath reports why path cannot be used as input, if it cannot.
func checkInputPath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return errors.Newf("%s: not a .csv file", path)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "%s", path)
	}
	if fi.IsDir() {
		return errors.Newf("%s: is a directory", path)
	}
	return nil
}

// promptPath asks for an input file until a usable one is entered.
func promptPath(in io.Reader, out io.Writer) (string, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Path to the session export (.csv): ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", errors.Wrap(err, "reading path")
			}
			return "", errors.New("no input file given")
		}
		path := strings.Trim(strings.TrimSpace(scanner.Text()), `"'`)
		if path == "" {
			continue
		}
		if err := checkInputPath(path); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		return path, nil
	}
}
