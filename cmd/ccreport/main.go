// Command ccreport prints call-center load reports from a session export.
package main

import (
	"os"

	"k8s.io/klog/v2"
)

func main() {
	err := newRootCommand().Execute()
	klog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
