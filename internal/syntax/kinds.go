package syntax

// kindTables lower language-specific grammar node types to normalized kinds.
// Types absent from a table lower to KindOther.
var kindTables = map[string]map[string]Kind{
	"go": {
		"source_file":                    KindFile,
		"function_declaration":           KindFunction,
		"method_declaration":             KindFunction,
		"func_literal":                   KindFunction,
		"parameter_declaration":          KindParam,
		"variadic_parameter_declaration": KindParam,
		"block":                          KindBlock,
		"call_expression":                KindCall,
		"identifier":                     KindIdent,
		"field_identifier":               KindIdent,
		"package_identifier":             KindIdent,
		"int_literal":                    KindNumberLit,
		"float_literal":                  KindNumberLit,
		"imaginary_literal":              KindNumberLit,
		"rune_literal":                   KindNumberLit,
		"interpreted_string_literal":     KindStringLit,
		"raw_string_literal":             KindStringLit,
		"assignment_statement":           KindAssign,
		"short_var_declaration":          KindVarDecl,
		"var_declaration":                KindVarDecl,
		"const_declaration":              KindConstDecl,
		"for_statement":                  KindLoop,
		"if_statement":                   KindCond,
		"expression_switch_statement":    KindCond,
		"type_switch_statement":          KindCond,
		"select_statement":               KindCond,
		"return_statement":               KindReturn,
		"comment":                        KindComment,
	},
	"python": {
		"module":              KindFile,
		"function_definition": KindFunction,
		"lambda":              KindFunction,
		"default_parameter":   KindParam,
		"typed_parameter":     KindParam,
		"block":               KindBlock,
		"call":                KindCall,
		"identifier":          KindIdent,
		"integer":             KindNumberLit,
		"float":               KindNumberLit,
		"string":              KindStringLit,
		"assignment":          KindAssign,
		"augmented_assignment": KindAssign,
		"for_statement":       KindLoop,
		"while_statement":     KindLoop,
		"if_statement":        KindCond,
		"match_statement":     KindCond,
		"conditional_expression": KindCond,
		"return_statement":    KindReturn,
		"comment":             KindComment,
	},
	"javascript": {
		"program":                         KindFile,
		"function_declaration":            KindFunction,
		"function_expression":             KindFunction,
		"arrow_function":                  KindFunction,
		"method_definition":               KindFunction,
		"generator_function_declaration":  KindFunction,
		"statement_block":                 KindBlock,
		"call_expression":                 KindCall,
		"new_expression":                  KindCall,
		"identifier":                      KindIdent,
		"property_identifier":             KindIdent,
		"shorthand_property_identifier":   KindIdent,
		"number":                          KindNumberLit,
		"string":                          KindStringLit,
		"template_string":                 KindStringLit,
		"assignment_expression":           KindAssign,
		"augmented_assignment_expression": KindAssign,
		"variable_declaration":            KindVarDecl,
		"lexical_declaration":             KindVarDecl,
		"for_statement":                   KindLoop,
		"for_in_statement":                KindLoop,
		"while_statement":                 KindLoop,
		"do_statement":                    KindLoop,
		"if_statement":                    KindCond,
		"switch_statement":                KindCond,
		"ternary_expression":              KindCond,
		"return_statement":                KindReturn,
		"comment":                         KindComment,
	},
	"java": {
		"program":                          KindFile,
		"method_declaration":               KindFunction,
		"constructor_declaration":          KindFunction,
		"formal_parameter":                 KindParam,
		"spread_parameter":                 KindParam,
		"block":                            KindBlock,
		"method_invocation":                KindCall,
		"object_creation_expression":       KindCall,
		"identifier":                       KindIdent,
		"decimal_integer_literal":          KindNumberLit,
		"hex_integer_literal":              KindNumberLit,
		"decimal_floating_point_literal":   KindNumberLit,
		"string_literal":                   KindStringLit,
		"assignment_expression":            KindAssign,
		"local_variable_declaration":       KindVarDecl,
		"field_declaration":                KindVarDecl,
		"for_statement":                    KindLoop,
		"enhanced_for_statement":           KindLoop,
		"while_statement":                  KindLoop,
		"do_statement":                     KindLoop,
		"if_statement":                     KindCond,
		"switch_expression":                KindCond,
		"ternary_expression":               KindCond,
		"return_statement":                 KindReturn,
		"line_comment":                     KindComment,
		"block_comment":                    KindComment,
	},
	"rust": {
		"source_file":           KindFile,
		"function_item":         KindFunction,
		"closure_expression":    KindFunction,
		"parameter":             KindParam,
		"block":                 KindBlock,
		"call_expression":       KindCall,
		"macro_invocation":      KindCall,
		"identifier":            KindIdent,
		"field_identifier":      KindIdent,
		"integer_literal":       KindNumberLit,
		"float_literal":         KindNumberLit,
		"string_literal":        KindStringLit,
		"raw_string_literal":    KindStringLit,
		"assignment_expression": KindAssign,
		"let_declaration":       KindVarDecl,
		"const_item":            KindConstDecl,
		"static_item":           KindConstDecl,
		"for_expression":        KindLoop,
		"while_expression":      KindLoop,
		"loop_expression":       KindLoop,
		"if_expression":         KindCond,
		"match_expression":      KindCond,
		"return_expression":     KindReturn,
		"line_comment":          KindComment,
		"block_comment":         KindComment,
	},
	"c": {
		"translation_unit":       KindFile,
		"function_definition":    KindFunction,
		"parameter_declaration":  KindParam,
		"compound_statement":     KindBlock,
		"call_expression":        KindCall,
		"identifier":             KindIdent,
		"field_identifier":       KindIdent,
		"number_literal":         KindNumberLit,
		"string_literal":         KindStringLit,
		"char_literal":           KindStringLit,
		"assignment_expression":  KindAssign,
		"declaration":            KindVarDecl,
		"for_statement":          KindLoop,
		"while_statement":        KindLoop,
		"do_statement":           KindLoop,
		"if_statement":           KindCond,
		"switch_statement":       KindCond,
		"conditional_expression": KindCond,
		"return_statement":       KindReturn,
		"comment":                KindComment,
	},
	"ruby": {
		"program":             KindFile,
		"method":              KindFunction,
		"singleton_method":    KindFunction,
		"lambda":              KindFunction,
		"optional_parameter":  KindParam,
		"keyword_parameter":   KindParam,
		"body_statement":      KindBlock,
		"call":                KindCall,
		"identifier":          KindIdent,
		"constant":            KindIdent,
		"integer":             KindNumberLit,
		"float":               KindNumberLit,
		"string":              KindStringLit,
		"assignment":          KindAssign,
		"operator_assignment": KindAssign,
		"for":                 KindLoop,
		"while":               KindLoop,
		"until":               KindLoop,
		"if":                  KindCond,
		"unless":              KindCond,
		"case":                KindCond,
		"return":              KindReturn,
		"comment":             KindComment,
	},
}

// paramContainers lists, per language, the grammar types whose direct named
// children are positional parameters. Languages like Python and JavaScript
// declare plain-identifier parameters that are only recognizable by their
// container.
var paramContainers = map[string]map[string]bool{
	"go":         {"parameter_list": true},
	"python":     {"parameters": true, "lambda_parameters": true},
	"javascript": {"formal_parameters": true},
	"typescript": {"formal_parameters": true},
	"java":       {"formal_parameters": true},
	"rust":       {"parameters": true},
	"c":          {"parameter_list": true},
	"cpp":        {"parameter_list": true},
	"ruby":       {"method_parameters": true, "block_parameters": true},
}

func init() {
	// TypeScript's grammar is a superset of JavaScript's; C++'s of C's.
	kindTables["typescript"] = kindTables["javascript"]
	kindTables["cpp"] = kindTables["c"]
}

// kindTable returns the lowering table for a language. Unknown languages
// get an empty table: every node lowers to KindOther.
func kindTable(lang string) map[string]Kind {
	table, ok := kindTables[lang]
	if !ok {
		return map[string]Kind{}
	}

	return table
}
