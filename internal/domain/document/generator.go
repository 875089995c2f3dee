package document

import (
	"fmt"
	"math/rand"
	"strings"
)

// StubSignaturePNG is a fixed 1x1 transparent PNG data URL used as the
// signature capture placeholder.
const StubSignaturePNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// GeneratedDraft is the output of the canned text generator.
type GeneratedDraft struct {
	Content            string `json:"content"`
	ReadingTimeMinutes int    `json:"reading_time_minutes"`
}

// Generator produces canned consent text keyed by procedure category. It is
// a placeholder for a real text-generation integration; the reading time is
// random in the 3 to 7 minute range.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

var categoryTemplates = map[string]string{
	"Estético": "Declaro estar ciente de que o procedimento estético %s tem finalidade " +
		"de harmonização e melhora da aparência, podendo exigir sessões de manutenção. " +
		"Fui informado(a) sobre os cuidados pré e pós-procedimento e sobre a possibilidade " +
		"de resultados variarem entre pacientes.",
	"Cirúrgico": "Declaro estar ciente de que o procedimento cirúrgico %s envolve incisão, " +
		"anestesia e período de recuperação, com riscos inerentes a qualquer ato cirúrgico, " +
		"incluindo sangramento, infecção e cicatrização inestética. Autorizo a equipe a " +
		"adotar as condutas necessárias em caso de intercorrência.",
	"Dermatológico": "Declaro estar ciente de que o procedimento dermatológico %s pode " +
		"causar vermelhidão, descamação ou sensibilidade temporária na pele tratada, e que " +
		"devo seguir rigorosamente as orientações de fotoproteção no período indicado.",
	"Capilar": "Declaro estar ciente de que o tratamento capilar %s apresenta resultados " +
		"graduais e dependentes de continuidade, e que fatores individuais podem influenciar " +
		"a resposta ao tratamento.",
	"Outro": "Declaro estar ciente da natureza do procedimento %s, de seus riscos e " +
		"benefícios, e que tive a oportunidade de esclarecer todas as minhas dúvidas antes " +
		"de assinar este termo.",
}

const closingParagraph = "Li e compreendi as informações acima, e consinto de forma " +
	"livre e esclarecida com a realização do procedimento."

// Generate returns canned consent text for the procedure and category. An
// unknown category falls back to the generic template.
func (g *Generator) Generate(procedureName, category string) GeneratedDraft {
	tpl, ok := categoryTemplates[category]
	if !ok {
		tpl = categoryTemplates["Outro"]
	}
	var b strings.Builder
	fmt.Fprintf(&b, tpl, procedureName)
	b.WriteString("\n\n")
	b.WriteString(closingParagraph)

	return GeneratedDraft{
		Content:            b.String(),
		ReadingTimeMinutes: 3 + g.rng.Intn(5), // 3..7
	}
}
