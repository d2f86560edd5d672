// logexport converts the run audit log into the 4-column xlsx report
// (Status, Party Code, Party Name, Emails/Error).
//
// Usage: logexport [FinalEmailLog.txt] [out.xlsx]
package main

import (
	"fmt"
	"os"

	"github.com/easysell/recon_backend/mailer"
)

func main() {
	in := "FinalEmailLog.txt"
	out := "FinalEmailLog.xlsx"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	if len(os.Args) > 2 {
		out = os.Args[2]
	}

	f, err := os.Open(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", in, err)
		os.Exit(1)
	}
	defer f.Close()

	data, err := mailer.BuildLogWorkbook(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build workbook: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", out)
}
