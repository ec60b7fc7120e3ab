package anki

import (
	"strings"

	"kartei/internal/card"
)

const modelCSS = `.card {
  font-family: "Noto Sans", sans-serif;
  font-size: 22px;
  text-align: center;
  color: #1a1a1a;
  background-color: #fffdf7;
}
.cloze {
  font-weight: bold;
  color: #0057b7;
}
img {
  max-height: 260px;
}`

// templatesFor builds the card template set for a note model. Cloze models
// get the single cloze template Anki requires; standard models get one
// front/back template showing the first field on the front and everything
// else on the back.
func templatesFor(nt card.NoteType) []map[string]string {
	if nt.Cloze {
		return []map[string]string{{
			"Name":  "Cloze",
			"Front": "{{cloze:" + nt.Fields[0] + "}}",
			"Back":  "{{cloze:" + nt.Fields[0] + "}}<br>{{" + nt.Fields[1] + "}}{{" + nt.Fields[2] + "}}",
		}}
	}
	var back strings.Builder
	back.WriteString("{{FrontSide}}\n<hr id=answer>\n")
	for _, field := range nt.Fields[1:] {
		back.WriteString("{{" + field + "}}<br>\n")
	}
	return []map[string]string{{
		"Name":  "Card 1",
		"Front": "{{" + nt.Fields[0] + "}}",
		"Back":  back.String(),
	}}
}
