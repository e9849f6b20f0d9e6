package constant

// Prompt for detecting whether a question has a prerequisite topic the
// student should understand first. The model must answer with the bare topic
// name or the exact string "None".
const DetectPrerequisitePromptV1 = `Examine the following question related to educational content. Based on the question, determine if there's a prerequisite topic that the student likely needs to understand first before comprehending the answer.

Question: "%s"

First, analyze what topics are directly asked about in the question. Then, determine the most fundamental concept that is DIRECTLY RELATED to this question and is necessary to understand before the original question can be properly understood.

Important rules:
1. The prerequisite MUST be closely and directly related to the original question
2. The prerequisite should be specific, not general (e.g. "quadratic equations" not "mathematics")
3. Do not suggest basic concepts unless the question is actually about a complex topic building on them
4. If the question is already about a fundamental concept, return the exact string "None"
5. DO NOT include any words like "Prerequisite:" in your response, just give the topic name or "None"

Examples of good outputs:
- linear equations
- force and mass concepts
- cellular respiration
- None

Output ONLY the prerequisite topic name or "None". Keep it concise - max 5 words.`

// Prompt for explaining a prerequisite topic from general knowledge only.
const ExplainPrerequisitePromptV1 = `Provide a clear, concise explanation of '%s' suitable for a student who needs this information as background knowledge.

Important: Use ONLY your general knowledge for this explanation. Do NOT refer to any document or PDF content.

The explanation should:
1. Define what '%s' is in simple terms
2. Explain why it's important or useful for understanding related concepts
3. Include 1-2 simple examples if applicable
4. Be educational and suitable for a student

Keep the explanation under 200 words, focusing on clarity and helpfulness.
Remember to ONLY use your general knowledge, not information from any document.`

// Prompt for answering a question grounded strictly in retrieved document
// snippets. First placeholder is the context block, second is the question.
const GroundedAnswerPromptV1 = `You are a helpful educational assistant. Your task is to answer questions about educational content based STRICTLY on the provided text snippets from the document.

Context information from the document is below:
%s

ONLY using the context information above and NOT your general knowledge, answer the question:
%s

Important guidelines:
1. ONLY use information found in the context snippets above
2. If the context doesn't contain the information needed, admit that you don't have enough information in the document
3. Do NOT use any knowledge outside of what's provided in the context snippets
4. Answer in a structured, educational way that helps the student understand the topic deeply
5. If the question asks for raw text or verbatim content, provide only the relevant sections from the context
6. If appropriate, include examples, analogies, or step-by-step explanations FROM THE DOCUMENT ONLY

Remember: You must ONLY use information from the provided context.`

// Prompt for turning a conversation transcript into structured study notes.
const StudyNotesPromptV1 = `Based on the following educational conversation, create comprehensive study notes in markdown format.

Conversation:
%s

Create study notes that include:
1. A clear title summarizing the topic
2. Key concepts discussed, with short definitions
3. Main takeaways from the conversation
4. Critical points to remember for studying

Format the notes using clear headings, bullet points, and organized sections. Make them suitable for studying and review.
Keep the language clear and educational. Focus on the most important information that a student should remember.

If there are any prerequisite concepts mentioned, include them in a separate "Prerequisites" section.`
