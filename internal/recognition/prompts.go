package recognition

import (
	"fmt"
	"strings"
)

// Content types reported by detection.
const (
	ContentText               = "text"
	ContentChemicalFormula    = "chemical_formula"
	ContentChemicalEquation   = "chemical_equation"
	ContentMathematical       = "mathematical"
	ContentMolecularStructure = "molecular_structure"
	ContentDrawing            = "drawing"
	ContentMixed              = "mixed"
	ContentEmpty              = "empty"
	ContentGeneral            = "general"
)

const detectPrompt = `Look at this canvas image and describe exactly what has been written or drawn on it.

Return only a JSON object:
{
  "contentType": "text|chemical_formula|chemical_equation|mathematical|molecular_structure|drawing|mixed|empty",
  "description": "what is visibly written or drawn",
  "confidence": 0.95
}

Use "empty" when nothing legible is present. Describe only what you can see; do not guess at intent.`

var criteria = map[string][]string{
	ContentText: {
		"Spelling and grammar",
		"Scientific accuracy and terminology",
		"Clarity and completeness of explanations",
	},
	ContentChemicalFormula: {
		"Correct element symbols",
		"Subscripts for atom counts",
		"Superscripts for charges",
	},
	ContentChemicalEquation: {
		"Atoms balanced on both sides",
		"Reaction arrow notation",
		"State symbols (s), (l), (g), (aq) where present",
		"Coefficients and subscripts",
	},
	ContentMathematical: {
		"Arithmetic and algebraic accuracy",
		"Notation and units",
		"Logical flow of the working",
	},
	ContentMolecularStructure: {
		"Bonding patterns and geometry",
		"Atom placement and connectivity",
		"Functional groups",
		"Stereochemistry where shown",
	},
	ContentDrawing: {
		"Accuracy relative to the concept",
		"Labels and annotations",
		"Scientific accuracy of the illustration",
	},
	ContentMixed: {
		"Accuracy of each kind of content",
		"Consistency between formulas, equations and drawings",
	},
}

var defaultCriteria = []string{
	"Overall accuracy",
	"Scientific notation and terminology",
	"Clarity and completeness",
}

func analysisPrompt(subject string, d ContentDetection) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are an expert %s teacher reviewing a student's canvas. The student has written or drawn: %q.\n\n", subject, d.Description)
	sb.WriteString("Review only what is present and point out concrete problems and fixes.\n\nCriteria:\n")

	list, ok := criteria[d.ContentType]
	if !ok {
		list = defaultCriteria
	}
	for _, c := range list {
		sb.WriteString("- ")
		sb.WriteString(c)
		sb.WriteByte('\n')
	}

	sb.WriteString(`
Return only a JSON object:
{
  "corrections": [
    {"x": 150, "y": 100, "message": "what is wrong and how to fix it", "type": "error|warning|suggestion", "severity": "low|medium|high", "category": "formula|equation|notation|structure|general"}
  ],
  "overallScore": 85,
  "feedback": "assessment of the visible content",
  "suggestions": ["next step"]
}

x and y are canvas pixel positions next to the problem. If the work is correct, return no corrections, a score of 90 to 100 and encouraging feedback.`)
	return sb.String()
}

const convertPrompt = `Convert this hand-drawn chemistry diagram into a structured representation.

Identify atoms and their positions, bonds (single, double, triple, aromatic, ionic), charges and stereochemistry.

Return only a JSON object:
{
  "success": true,
  "structure": {
    "id": "structure-1",
    "type": "molecule|reaction|ion|complex",
    "atoms": [{"id": "atom-1", "element": "C", "x": 100, "y": 100, "charge": 0, "hybridization": "sp3"}],
    "bonds": [{"id": "bond-1", "from": "atom-1", "to": "atom-2", "type": "single"}],
    "metadata": {"name": "Methane", "formula": "CH4", "smiles": "C", "inchi": "InChI=1S/CH4/h1H4"}
  },
  "confidence": 0.95,
  "suggestions": ["how the drawing could be clearer"]
}

If no structure can be recognised, return {"success": false, "error": "reason", "confidence": 0}.`
