// Command switchboard runs, analyzes and serves conversational IVR workflows.
package main

func main() {
	Execute()
}
