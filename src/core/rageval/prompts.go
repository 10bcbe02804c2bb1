package rageval

const (
	DatasetGenerationSystemMessage = `
You are a teacher creating an exam from reference material. You only write questions that can be answered from the given context, and you answer them yourself using only that context.
`
	DatasetGenerationPromptTmpl = `
Context information is below.

<CONTEXT>
{{.Context}}
</CONTEXT>

Using only the context above, write exactly {{.Count}} question and answer pairs. \
Questions must be answerable from the context alone. \
Format every pair as two lines, with no numbering and no extra commentary:
Q: <question>
A: <answer>
`
	AnswerSystemMessage = `
You are a helpful assistant that answers questions using only the provided context. If the context does not contain the answer, say so.
`
	AnswerPromptTmpl = `
Context information is below.

<CONTEXT>
{{.Context}}
</CONTEXT>

Given the context information and not prior knowledge, answer the question.
Question: {{.Question}}
Answer:
`
	CorrectnessSystemMessage = `
You are an expert grader. You compare a candidate answer against a reference answer and rate how correct the candidate is.
`
	CorrectnessPromptTmpl = `
Rate the candidate answer against the reference answer on a scale from 1 to 5, \
where 1 means entirely wrong and 5 means fully correct and complete.

Question: {{.Question}}

<REFERENCE_ANSWER>
{{.Reference}}
</REFERENCE_ANSWER>

<CANDIDATE_ANSWER>
{{.Candidate}}
</CANDIDATE_ANSWER>

Respond with a single line in the form:
SCORE: <number>
`
	RelevancySystemMessage = `
You are an expert grader. You judge whether an answer actually addresses the question asked, given the retrieved context.
`
	RelevancyPromptTmpl = `
Question: {{.Question}}

<CONTEXT>
{{.Context}}
</CONTEXT>

<ANSWER>
{{.Answer}}
</ANSWER>

Does the answer address the question using the context? Respond with a single line:
VERDICT: YES
or
VERDICT: NO
`
	FaithfulnessSystemMessage = `
You are an expert grader. You judge whether an answer is supported by the given context, without relying on outside knowledge.
`
	FaithfulnessPromptTmpl = `
<CONTEXT>
{{.Context}}
</CONTEXT>

<ANSWER>
{{.Answer}}
</ANSWER>

Is every claim in the answer supported by the context? Respond with a single line:
VERDICT: YES
or
VERDICT: NO
`
)
