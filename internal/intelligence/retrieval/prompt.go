package retrieval

const systemPrompt = `You are a patent research assistant. You search Google Patents, USPTO, EPO and WIPO for prior art and answer only with data.`

const userPromptTemplate = `Find 10 to 15 existing patents or published patent applications that are the closest prior art for the invention described below.

Respond with a JSON array only, no prose before or after it. Each element must be an object with these string fields:
  "number"   - the publication number, e.g. "US10123456B2"
  "title"    - the patent title
  "abstract" - a one or two sentence summary of what the patent claims
  "date"     - the publication date as YYYY-MM-DD, or "" if unknown
  "assignee" - the current assignee, or "" if unknown

Invention:
%s`
