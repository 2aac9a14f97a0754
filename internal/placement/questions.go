package placement

import (
	"fmt"

	"github.com/example/lingua/pkg/models"
)

// sectionOrder fixes how sections appear in a test: six vocabulary
// questions, then six grammar, then six reading
var sectionOrder = []string{
	models.SectionVocabulary,
	models.SectionGrammar,
	models.SectionReading,
}

type bankQuestion struct {
	Passage       string
	QuestionText  string
	Options       []string
	CorrectAnswer int
}

// predefinedQuestion returns the curated question for a language, section,
// and CEFR level. Languages without a curated bank get a generic placeholder
// so a test still runs end to end.
func predefinedQuestion(language, section, level string) bankQuestion {
	if q, ok := questionBank[language][section][level]; ok {
		return q
	}
	return bankQuestion{
		QuestionText:  fmt.Sprintf("Sample %s %s question for %s", level, section, language),
		Options:       []string{"Option A", "Option B", "Option C", "Option D"},
		CorrectAnswer: 0,
	}
}

// questionBank holds one curated question per language, section, and level.
// Questions are asked in English so learners at any level can follow the
// instructions; passages and answer options carry the target language.
var questionBank = map[string]map[string]map[string]bankQuestion{
	"Spanish": {
		models.SectionVocabulary: {
			"A1": {
				QuestionText:  "How do you say 'hello' in Spanish?",
				Options:       []string{"Hola", "Adiós", "Por favor", "Gracias"},
				CorrectAnswer: 0,
			},
			"A2": {
				QuestionText:  "What does 'comida' mean in English?",
				Options:       []string{"Drink", "Food", "House", "Friend"},
				CorrectAnswer: 1,
			},
			"B1": {
				QuestionText:  "Choose the Spanish word for 'although':",
				Options:       []string{"Porque", "Aunque", "Entonces", "Siempre"},
				CorrectAnswer: 1,
			},
			"B2": {
				QuestionText:  "What is the best translation for 'to achieve'?",
				Options:       []string{"Intentar", "Lograr", "Empezar", "Pensar"},
				CorrectAnswer: 1,
			},
			"C1": {
				QuestionText:  "Which word means 'to undertake' or 'carry out'?",
				Options:       []string{"Realizar", "Acometer", "Emprender", "All of the above"},
				CorrectAnswer: 3,
			},
			"C2": {
				QuestionText:  "What does 'ubicuo' mean?",
				Options:       []string{"Rare", "Ubiquitous", "Ancient", "Modern"},
				CorrectAnswer: 1,
			},
		},
		models.SectionGrammar: {
			"A1": {
				QuestionText:  "Choose the correct form: Yo ___ estudiante.",
				Options:       []string{"soy", "eres", "es", "son"},
				CorrectAnswer: 0,
			},
			"A2": {
				QuestionText:  "Fill in: Ayer ___ al parque.",
				Options:       []string{"voy", "fui", "iré", "vaya"},
				CorrectAnswer: 1,
			},
			"B1": {
				QuestionText:  "Complete: Si ___ tiempo, iría contigo.",
				Options:       []string{"tengo", "tuve", "tuviera", "tendría"},
				CorrectAnswer: 2,
			},
			"B2": {
				QuestionText:  "Choose the correct form: El proyecto ___ completado para mañana.",
				Options:       []string{"será", "ha sido", "estará", "fue"},
				CorrectAnswer: 0,
			},
			"C1": {
				QuestionText:  "Select: ___ las circunstancias, decidimos continuar.",
				Options:       []string{"A pesar de", "Aunque", "Dadas", "Porque"},
				CorrectAnswer: 2,
			},
			"C2": {
				QuestionText:  "Choose: La hipótesis ___ una investigación más profunda.",
				Options:       []string{"requiere", "requiera", "requería", "requerirá"},
				CorrectAnswer: 0,
			},
		},
		models.SectionReading: {
			"A1": {
				Passage:       "Me llamo María. Soy profesora. Trabajo en una escuela.",
				QuestionText:  "What is María's profession?",
				Options:       []string{"Student", "Teacher", "Doctor", "Engineer"},
				CorrectAnswer: 1,
			},
			"A2": {
				Passage:       "Ayer Juan fue al mercado. Compró manzanas y naranjas. Volvió a casa a las cinco.",
				QuestionText:  "What did Juan buy?",
				Options:       []string{"Vegetables", "Fruits", "Meat", "Bread"},
				CorrectAnswer: 1,
			},
			"B1": {
				Passage:       "El cambio climático está afectando nuestro planeta. Los científicos recomiendan reducir las emisiones de carbono para frenar el calentamiento global.",
				QuestionText:  "According to the passage, what do scientists recommend?",
				Options:       []string{"Increasing emissions", "Reducing carbon emissions", "Ignoring climate change", "Building more factories"},
				CorrectAnswer: 1,
			},
			"B2": {
				Passage:       "El enfoque innovador de la empresa hacia la sostenibilidad ha ganado reconocimiento internacional, estableciendo nuevos estándares en la industria.",
				QuestionText:  "What has the company achieved?",
				Options:       []string{"Financial loss", "International recognition", "Employee reduction", "Market decline"},
				CorrectAnswer: 1,
			},
			"C1": {
				Passage:       "La literatura contemporánea refleja las ansiedades sociales, sirviendo como espejo y catalizador del discurso cultural en la sociedad moderna.",
				QuestionText:  "According to the passage, what role does contemporary literature play?",
				Options:       []string{"Entertainment only", "Reflects anxieties and catalyzes discourse", "Historical documentation", "Political propaganda"},
				CorrectAnswer: 1,
			},
			"C2": {
				Passage:       "Las implicaciones epistemológicas de la mecánica cuántica han desafiado fundamentalmente nuestra comprensión del determinismo y la causalidad en el universo físico.",
				QuestionText:  "What has quantum mechanics challenged?",
				Options:       []string{"Mathematical principles", "Understanding of determinism and causality", "Chemical reactions", "Biological evolution"},
				CorrectAnswer: 1,
			},
		},
	},
	"French": {
		models.SectionVocabulary: {
			"A1": {
				QuestionText:  "How do you say 'hello' in French?",
				Options:       []string{"Bonjour", "Au revoir", "Merci", "S'il vous plaît"},
				CorrectAnswer: 0,
			},
			"A2": {
				QuestionText:  "What does 'nourriture' mean?",
				Options:       []string{"Water", "Food", "House", "Car"},
				CorrectAnswer: 1,
			},
			"B1": {
				QuestionText:  "Choose the French word for 'although':",
				Options:       []string{"Parce que", "Bien que", "Donc", "Toujours"},
				CorrectAnswer: 1,
			},
			"B2": {
				QuestionText:  "What is the best translation for 'to accomplish'?",
				Options:       []string{"Essayer", "Accomplir", "Commencer", "Penser"},
				CorrectAnswer: 1,
			},
			"C1": {
				QuestionText:  "Which word best expresses 'meticulous'?",
				Options:       []string{"Rapide", "Soigneux", "Méticuleux", "Lent"},
				CorrectAnswer: 2,
			},
			"C2": {
				QuestionText:  "What does 'omniprésent' mean?",
				Options:       []string{"Rare", "Ubiquitous", "Ancient", "Temporary"},
				CorrectAnswer: 1,
			},
		},
		models.SectionGrammar: {
			"A1": {
				QuestionText:  "Choose: Je ___ étudiant.",
				Options:       []string{"suis", "es", "est", "sont"},
				CorrectAnswer: 0,
			},
			"A2": {
				QuestionText:  "Fill in: Hier, je ___ au parc.",
				Options:       []string{"vais", "suis allé", "irai", "aille"},
				CorrectAnswer: 1,
			},
			"B1": {
				QuestionText:  "Complete: Si j'___ le temps, je viendrais.",
				Options:       []string{"ai", "avais", "aurai", "aurais"},
				CorrectAnswer: 1,
			},
			"B2": {
				QuestionText:  "Choose: Le projet ___ terminé demain.",
				Options:       []string{"sera", "est", "était", "serait"},
				CorrectAnswer: 0,
			},
			"C1": {
				QuestionText:  "Select: ___ les circonstances, nous avons continué.",
				Options:       []string{"Malgré", "Bien que", "Étant donné", "Parce que"},
				CorrectAnswer: 2,
			},
			"C2": {
				QuestionText:  "Choose: L'hypothèse ___ une enquête approfondie.",
				Options:       []string{"nécessite", "nécessiterait", "nécessitait", "nécessitera"},
				CorrectAnswer: 0,
			},
		},
		models.SectionReading: {
			"A1": {
				Passage:       "Je m'appelle Marie. Je suis professeur. Je travaille dans une école.",
				QuestionText:  "What is Marie's job?",
				Options:       []string{"Student", "Teacher", "Doctor", "Engineer"},
				CorrectAnswer: 1,
			},
			"A2": {
				Passage:       "Hier, Jean est allé au marché. Il a acheté des pommes et des oranges. Il est rentré à 17 heures.",
				QuestionText:  "What did Jean buy?",
				Options:       []string{"Vegetables", "Fruits", "Meat", "Bread"},
				CorrectAnswer: 1,
			},
			"B1": {
				Passage:       "Le changement climatique affecte notre planète. Les scientifiques recommandent de réduire les émissions de carbone pour ralentir le réchauffement.",
				QuestionText:  "What do scientists recommend?",
				Options:       []string{"Increasing emissions", "Reducing carbon emissions", "Ignoring the problem", "Building factories"},
				CorrectAnswer: 1,
			},
			"B2": {
				Passage:       "L'approche innovante de l'entreprise en matière de durabilité a obtenu une reconnaissance internationale, établissant de nouvelles normes dans l'industrie.",
				QuestionText:  "What has the company achieved?",
				Options:       []string{"Financial loss", "International recognition", "Staff reduction", "Market decline"},
				CorrectAnswer: 1,
			},
			"C1": {
				Passage:       "La littérature contemporaine reflète les anxiétés sociétales, servant à la fois de miroir et de catalyseur pour le discours culturel.",
				QuestionText:  "What role does contemporary literature play?",
				Options:       []string{"Entertainment only", "Reflects anxieties and catalyzes discourse", "Historical record", "Political tool"},
				CorrectAnswer: 1,
			},
			"C2": {
				Passage:       "Les implications épistémologiques de la mécanique quantique ont fondamentalement remis en question notre compréhension du déterminisme et de la causalité.",
				QuestionText:  "What has quantum mechanics challenged?",
				Options:       []string{"Mathematics", "Understanding of determinism and causality", "Chemistry", "Biology"},
				CorrectAnswer: 1,
			},
		},
	},
	"German": {
		models.SectionVocabulary: {
			"A1": {
				QuestionText:  "How do you say 'hello' in German?",
				Options:       []string{"Hallo", "Tschüss", "Danke", "Bitte"},
				CorrectAnswer: 0,
			},
			"A2": {
				QuestionText:  "What does 'Essen' mean?",
				Options:       []string{"Water", "Food", "House", "Friend"},
				CorrectAnswer: 1,
			},
			"B1": {
				QuestionText:  "Choose the German word for 'although':",
				Options:       []string{"Weil", "Obwohl", "Dann", "Immer"},
				CorrectAnswer: 1,
			},
			"B2": {
				QuestionText:  "What is 'to achieve' in German?",
				Options:       []string{"Versuchen", "Erreichen", "Beginnen", "Denken"},
				CorrectAnswer: 1,
			},
			"C1": {
				QuestionText:  "Which word means 'meticulous'?",
				Options:       []string{"Schnell", "Sorgfältig", "Akribisch", "Langsam"},
				CorrectAnswer: 2,
			},
			"C2": {
				QuestionText:  "What does 'allgegenwärtig' mean?",
				Options:       []string{"Rare", "Ubiquitous", "Ancient", "Modern"},
				CorrectAnswer: 1,
			},
		},
		models.SectionGrammar: {
			"A1": {
				QuestionText:  "Choose: Ich ___ Student.",
				Options:       []string{"bin", "bist", "ist", "sind"},
				CorrectAnswer: 0,
			},
			"A2": {
				QuestionText:  "Fill in: Gestern ___ ich im Park.",
				Options:       []string{"gehe", "war", "werde gehen", "ginge"},
				CorrectAnswer: 1,
			},
			"B1": {
				QuestionText:  "Complete: Wenn ich Zeit ___, würde ich mitkommen.",
				Options:       []string{"habe", "hatte", "hätte", "haben werde"},
				CorrectAnswer: 2,
			},
			"B2": {
				QuestionText:  "Choose: Das Projekt ___ morgen abgeschlossen.",
				Options:       []string{"wird", "ist", "war", "würde"},
				CorrectAnswer: 0,
			},
			"C1": {
				QuestionText:  "Select: ___ den Umständen haben wir fortgesetzt.",
				Options:       []string{"Trotz", "Obwohl", "Angesichts", "Weil"},
				CorrectAnswer: 2,
			},
			"C2": {
				QuestionText:  "Choose: Die Hypothese ___ weitere Untersuchung.",
				Options:       []string{"erfordert", "erforderte", "wird erfordern", "würde erfordern"},
				CorrectAnswer: 0,
			},
		},
		models.SectionReading: {
			"A1": {
				Passage:       "Ich heiße Maria. Ich bin Lehrerin. Ich arbeite in einer Schule.",
				QuestionText:  "What is Maria's profession?",
				Options:       []string{"Student", "Teacher", "Doctor", "Engineer"},
				CorrectAnswer: 1,
			},
			"A2": {
				Passage:       "Gestern ging Hans zum Markt. Er kaufte Äpfel und Orangen. Er kam um fünf nach Hause.",
				QuestionText:  "What did Hans buy?",
				Options:       []string{"Vegetables", "Fruits", "Meat", "Bread"},
				CorrectAnswer: 1,
			},
			"B1": {
				Passage:       "Der Klimawandel beeinflusst unseren Planeten. Wissenschaftler empfehlen, CO2-Emissionen zu reduzieren, um die globale Erwärmung zu verlangsamen.",
				QuestionText:  "What do scientists recommend?",
				Options:       []string{"Increasing emissions", "Reducing carbon emissions", "Ignoring the problem", "Building factories"},
				CorrectAnswer: 1,
			},
			"B2": {
				Passage:       "Der innovative Ansatz des Unternehmens zur Nachhaltigkeit hat internationale Anerkennung erhalten und neue Industriestandards gesetzt.",
				QuestionText:  "What has the company achieved?",
				Options:       []string{"Financial loss", "International recognition", "Staff reduction", "Market decline"},
				CorrectAnswer: 1,
			},
			"C1": {
				Passage:       "Die zeitgenössische Literatur spiegelt gesellschaftliche Ängste wider und dient als Spiegel und Katalysator für den kulturellen Diskurs.",
				QuestionText:  "What role does contemporary literature play?",
				Options:       []string{"Entertainment only", "Reflects anxieties and catalyzes discourse", "Historical record", "Political tool"},
				CorrectAnswer: 1,
			},
			"C2": {
				Passage:       "Die erkenntnistheoretischen Implikationen der Quantenmechanik haben unser Verständnis von Determinismus und Kausalität grundlegend in Frage gestellt.",
				QuestionText:  "What has quantum mechanics challenged?",
				Options:       []string{"Mathematics", "Understanding of determinism and causality", "Chemistry", "Biology"},
				CorrectAnswer: 1,
			},
		},
	},
}
