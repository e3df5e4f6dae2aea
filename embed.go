package campaignkit

import _ "embed"

// seedContent is the bundled site content document used to seed an empty
// store on the first content read.
//
//go:embed seed/content.json
var seedContent []byte
