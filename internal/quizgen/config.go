package quizgen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators is the ordered semantic check chain run on every record
	// after schema validation. The first failure rejects the batch.
	Validators []Validator

	// Temperature controls LLM output randomness.
	Temperature float64

	// TokensPerQuestion sizes the response budget per requested record.
	TokensPerQuestion int

	// MinTokens and MaxTokens clamp the computed budget.
	MinTokens int
	MaxTokens int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators:        DefaultValidators(),
		Temperature:       0.9,
		TokensPerQuestion: 400,
		MinTokens:         1024,
		MaxTokens:         16384,
	}
}

// DefaultValidators is structural, options, answer, blank, in that order.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&OptionsValidator{},
		&AnswerValidator{},
		&BlankValidator{},
	}
}

// tokenBudget returns the max_tokens value for a batch of count records.
func (c Config) tokenBudget(count int) int {
	n := count * c.TokensPerQuestion
	if n < c.MinTokens {
		n = c.MinTokens
	}
	if c.MaxTokens > 0 && n > c.MaxTokens {
		n = c.MaxTokens
	}
	return n
}
