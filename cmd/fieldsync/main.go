// Command fieldsync inspects form-state snapshots saved as JSON or YAML.
package main

func main() {
	execute()
}
