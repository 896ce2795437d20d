package mcp

// Tool descriptions shown to MCP clients

const (
	ExtractQuestionsDescription = `Extract multiple-choice questions from a College Board SAT question-bank PDF and save them as a JSON question set.

**When to use:** You have a PDF exported from the SAT Suite Question Bank and want quiz-ready JSON.

**Expected layout:** each question starts with "Question ID <hex>", has lettered choices A-D ("A." or "A)"), a "Correct Answer: X" line and an optional "Rationale" section.

**Output:** {"set_name": ..., "questions": [{"id", "question", "choices", "correct_answer", "explanation"}]}. Blocks that cannot be parsed are skipped and listed in the response.`

	ParseTextDescription = `Run the question extractor on text that was already pulled out of a PDF and return the question set JSON without writing a file.

**When to use:** Checking how a layout variant parses, or when text comes from another extraction tool.

**No questions:** unlike sat_extract_questions, which reports an error and writes nothing, this tool succeeds and returns a set with an empty "questions" array.`

	ValidateFileDescription = `Verify that a file is a readable PDF and report its page count before extraction.`
)
