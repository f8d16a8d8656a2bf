package lint

// DefaultRules returns a fresh instance of every built-in rule, ordered by id.
func DefaultRules() []Rule {
	return []Rule{
		NameMismatch{},
		DuplicateDeclaration{},
		DuplicateRoutine{},
		UnusedVariable{},
		UndefinedLabel{},
		GotoUsage{},
		KeywordCase{},
		TrailingWhitespace{},
		LineTooLong{},
		EmptyBlock{},
		LoopWithoutExit{},
		MissingReturn{},
		UnreachableCode{},
		ConstantCondition{},
		ParamDirection{},
		GlobalInPrivateDat{},
		FoldBalance{},
		SelfAssignment{},
	}
}
