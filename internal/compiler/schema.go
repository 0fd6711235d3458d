package compiler

// schemaSource constrains machine definition files before they are compiled.
// Definitions are closed, so a misspelled field is a CUE error with a
// position rather than a silently ignored key.
const schemaSource = `
#Symbol: "0" | "1" | "_"

#Transition: {
	from:  string & !=""
	read:  #Symbol
	to:    string & !=""
	write: #Symbol
	move:  "L" | "R"
}

#Machine: {
	description?: string
	start:        string & !=""
	accept:       string & !=""
	transitions: [...#Transition]
}

machine: [string]: #Machine
`
