// Command prompttest renders evaluation and generation prompts for a given
// interview context and, with --call, sends them to the configured model.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
