package sqlparse

// group arranges a flat token stream into top-level clause structure.
//
// Layout of the result for "SELECT DISTINCT a, b FROM R X, S WHERE x = 1":
//
//	Keyword(SELECT) ws Keyword(DISTINCT) ws IdentifierList(a, b) ws
//	Keyword(FROM) ws IdentifierList(R X, S) ws Where(WHERE ws Comparison(x = 1))
func group(tokens []*Token) []*Token {
	var out []*Token
	i := 0

	// Leading keywords (SELECT DISTINCT) and whitespace stay as they are.
	for i < len(tokens) && (tokens[i].IsKeyword() || tokens[i].IsWhitespace()) && !tokens[i].Is("FROM") {
		out = append(out, tokens[i])
		i++
	}

	// Select list: everything up to FROM.
	end := i
	for end < len(tokens) && !tokens[end].Is("FROM") && !isTerminator(tokens[end]) {
		end++
	}
	out = append(out, groupList(tokens[i:end], hasComma)...)
	i = end

	if i < len(tokens) && tokens[i].Is("FROM") {
		out = append(out, tokens[i])
		i++

		// Relation list: up to WHERE, the terminator, or any keyword but AS.
		end = i
		for end < len(tokens) && !isTerminator(tokens[end]) &&
			!(tokens[end].IsKeyword() && !tokens[end].Is("AS")) {
			end++
		}
		out = append(out, groupList(tokens[i:end], hasSeveral)...)
		i = end
	}

	if i < len(tokens) && tokens[i].Is("WHERE") {
		end = i
		for end < len(tokens) && !isTerminator(tokens[end]) {
			end++
		}
		clause, trailing := trimRight(tokens[i:end])
		out = append(out, newGroup(Where, groupComparisons(clause)))
		out = append(out, trailing...)
		i = end
	}

	return append(out, tokens[i:]...)
}

// groupList wraps the non-whitespace core of tokens in an IdentifierList
// when cond holds for it. Surrounding whitespace stays top-level.
func groupList(tokens []*Token, cond func([]*Token) bool) []*Token {
	lead, rest := trimLeft(tokens)
	core, trail := trimRight(rest)
	if len(core) == 0 || !cond(core) {
		return tokens
	}
	out := append([]*Token{}, lead...)
	out = append(out, newGroup(IdentifierList, core))
	return append(out, trail...)
}

// groupComparisons folds "operand [ws] op [ws] operand" runs into
// Comparison groups.
func groupComparisons(tokens []*Token) []*Token {
	var out []*Token
	for i := 0; i < len(tokens); i++ {
		if isOperand(tokens[i]) {
			j := skipWhitespace(tokens, i+1)
			if j < len(tokens) && tokens[j].Kind == Operator {
				k := skipWhitespace(tokens, j+1)
				if k < len(tokens) && isOperand(tokens[k]) {
					out = append(out, newGroup(Comparison, tokens[i:k+1]))
					i = k
					continue
				}
			}
		}
		out = append(out, tokens[i])
	}
	return out
}

func isOperand(t *Token) bool {
	return t.Kind == Name || t.Kind == Number || t.Kind == String
}

func isTerminator(t *Token) bool {
	return t.Kind == Punctuation && t.Value == ";"
}

func hasComma(tokens []*Token) bool {
	for _, t := range tokens {
		if t.Kind == Punctuation && t.Value == "," {
			return true
		}
	}
	return false
}

func hasSeveral(tokens []*Token) bool {
	n := 0
	for _, t := range tokens {
		if !t.IsWhitespace() {
			n++
		}
	}
	return n > 1
}

func skipWhitespace(tokens []*Token, i int) int {
	for i < len(tokens) && tokens[i].IsWhitespace() {
		i++
	}
	return i
}

func trimLeft(tokens []*Token) (lead, rest []*Token) {
	i := skipWhitespace(tokens, 0)
	return tokens[:i], tokens[i:]
}

func trimRight(tokens []*Token) (core, trail []*Token) {
	i := len(tokens)
	for i > 0 && tokens[i-1].IsWhitespace() {
		i--
	}
	return tokens[:i], tokens[i:]
}
