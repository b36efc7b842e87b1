package formatter

import (
	"bytes"

	"github.com/futig/docs-assistant/internal/entity"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(messages []entity.ChatMessage) ([]byte, error) {
	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titlePar.AddRun().AddText(baseTitle)

	for _, m := range messages {
		doc.AddParagraph()

		headPar := doc.AddParagraph()
		headPar.SetStyle("Heading2")
		headPar.AddRun().AddText(heading(m))

		bodyPar := doc.AddParagraph()
		bodyPar.AddRun().AddText(trimmed(m.Content))

		if len(m.Sources) == 0 {
			continue
		}
		labelRun := doc.AddParagraph().AddRun()
		labelRun.Properties().SetBold(true)
		labelRun.AddText("Sources:")
		for i, s := range m.Sources {
			doc.AddParagraph().AddRun().AddText(sourceLine(i, s))
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
