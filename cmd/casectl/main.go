// Command casectl loads case models, runs them and exports their structure.
package main

func main() {
	Execute()
}
