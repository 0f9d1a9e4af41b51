/*
* Copyright (c) 2023-present unTill Pro, Ltd.
* @author Michael Saigachenko
 */

package nedparser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var nedLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \r\n\t]+`},
	{Name: "Comment", Pattern: `//.*`},
	{Name: "Arrow", Pattern: `<-->|-->|<--`},
	{Name: "DblStar", Pattern: `\*\*`},
	{Name: "ColonColon", Pattern: `::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?`},
	{Name: "Keyword", Pattern: `\b(package|import|simple|module|network|channel|moduleinterface|channelinterface|extends|like|types|parameters|gates|submodules|connections|input|output|inout)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Punct", Pattern: `[-+*/%?=<>.,;:(){}\[\]@!&|~^]`},
})

var nedGrammar = participle.MustBuild[nedFileStmt](
	participle.Lexer(nedLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
)

func parseImpl(fileName string, content string) (*nedFileStmt, error) {
	return nedGrammar.ParseString(fileName, content)
}

// Grammar AST. These types mirror the accepted NED subset; compose() lowers
// them into the generic nedast element tree.

type nedFileStmt struct {
	Pos     lexer.Position
	Package *packageStmt   `parser:"@@?"`
	Imports []importStmt   `parser:"@@*"`
	Items   []fileItemStmt `parser:"@@*"`
}

type fileItemStmt struct {
	Property *propertyStmt `parser:"@@"`
	Type     *typeStmt     `parser:"| @@"`
}

type packageStmt struct {
	Pos  lexer.Position
	Name string `parser:"'package' @Ident (@'.' @Ident)* ';'"`
}

type importStmt struct {
	Pos  lexer.Position
	Spec string `parser:"'import' @(Ident | '.' | '*' | '**')+ ';'"`
}

type propertyStmt struct {
	Pos   lexer.Position
	Name  string `parser:"'@' @Ident"`
	Value string `parser:"('(' @(Ident | Number | String | '.' | '::' | '-' | '/' | '=' | ',')* ')')? ';'"`
}

type typeStmt struct {
	Simple    *simpleModuleStmt     `parser:"@@"`
	Compound  *compoundModuleStmt   `parser:"| @@"`
	Channel   *channelStmt          `parser:"| @@"`
	ModuleIf  *moduleInterfaceStmt  `parser:"| @@"`
	ChannelIf *channelInterfaceStmt `parser:"| @@"`
}

type dottedName struct {
	Pos  lexer.Position
	Name string `parser:"@Ident (@'.' @Ident)*"`
}

type simpleModuleStmt struct {
	Pos     lexer.Position
	Name    string       `parser:"'simple' @Ident"`
	Extends *dottedName  `parser:"('extends' @@)?"`
	Likes   []dottedName `parser:"('like' @@ (',' @@)*)?"`
	Body    *bodyStmt    `parser:"(@@ | ';')"`
}

type compoundModuleStmt struct {
	Pos     lexer.Position
	Name    string       `parser:"('module' | 'network') @Ident"`
	Extends *dottedName  `parser:"('extends' @@)?"`
	Likes   []dottedName `parser:"('like' @@ (',' @@)*)?"`
	Body    *bodyStmt    `parser:"(@@ | ';')"`
}

type channelStmt struct {
	Pos     lexer.Position
	Name    string       `parser:"'channel' @Ident"`
	Extends *dottedName  `parser:"('extends' @@)?"`
	Likes   []dottedName `parser:"('like' @@ (',' @@)*)?"`
	Body    *bodyStmt    `parser:"(@@ | ';')"`
}

type moduleInterfaceStmt struct {
	Pos     lexer.Position
	Name    string       `parser:"'moduleinterface' @Ident"`
	Extends []dottedName `parser:"('extends' @@ (',' @@)*)?"`
	Body    *bodyStmt    `parser:"(@@ | ';')"`
}

type channelInterfaceStmt struct {
	Pos     lexer.Position
	Name    string       `parser:"'channelinterface' @Ident"`
	Extends []dottedName `parser:"('extends' @@ (',' @@)*)?"`
	Body    *bodyStmt    `parser:"(@@ | ';')"`
}

type bodyStmt struct {
	Sections []sectionStmt `parser:"'{' @@* '}'"`
}

type sectionStmt struct {
	Types       *typesSectionStmt       `parser:"@@"`
	Parameters  *parametersSectionStmt  `parser:"| @@"`
	Gates       *gatesSectionStmt       `parser:"| @@"`
	Submodules  *submodulesSectionStmt  `parser:"| @@"`
	Connections *connectionsSectionStmt `parser:"| @@"`
}

type typesSectionStmt struct {
	Pos   lexer.Position
	Types []typeStmt `parser:"'types' ':' @@*"`
}

type parametersSectionStmt struct {
	Pos   lexer.Position
	Items []paramItemStmt `parser:"'parameters' ':' @@*"`
}

type paramItemStmt struct {
	Property *propertyStmt  `parser:"@@"`
	Param    *paramDeclStmt `parser:"| @@"`
}

// paramDeclStmt accepts both typed declarations ("int count") and plain
// assignments ("count = 5", "sub.count = 5"). The cache never evaluates
// parameter expressions, so the value is kept as raw text.
type paramDeclStmt struct {
	Pos      lexer.Position
	Volatile bool    `parser:"@'volatile'?"`
	Type     *string `parser:"@('bool' | 'int' | 'double' | 'string' | 'xml')?"`
	Name     string  `parser:"@(Ident | '.')+"`
	Value    *string `parser:"('=' @(Ident | Number | String | '.' | '(' | ')' | '+' | '-' | '*' | '/' | '%' | ',' | '?' | '::')+)? ';'"`
}

type gatesSectionStmt struct {
	Pos   lexer.Position
	Gates []gateDeclStmt `parser:"'gates' ':' @@*"`
}

type gateDeclStmt struct {
	Pos    lexer.Position
	Kind   string  `parser:"@('input' | 'output' | 'inout')"`
	Name   string  `parser:"@Ident"`
	Vector *string `parser:"('[' @(Ident | Number | '.' | '+' | '-' | '*' | '/')* ']')? ';'"`
}

type submodulesSectionStmt struct {
	Pos        lexer.Position
	Submodules []submoduleStmt `parser:"'submodules' ':' @@*"`
}

// submoduleStmt covers both the fixed form ("node: Router;") and the
// parametric form ("node: <expr> like IRouter;"); in the latter case Type
// holds the interface name.
type submoduleStmt struct {
	Pos      lexer.Position
	Name     string     `parser:"@Ident ':'"`
	Like     bool       `parser:"(@'<'"`
	LikeExpr string     `parser:"@(Ident | Number | String | '.' | '(' | ')' | '+' | '-' | '*' | '/')* '>' 'like')?"`
	Type     dottedName `parser:"@@"`
	Body     *bodyStmt  `parser:"(@@ | ';')"`
}

type connectionsSectionStmt struct {
	Pos         lexer.Position
	Connections []connectionStmt `parser:"'connections' ':' @@*"`
}

type connectionStmt struct {
	Pos  lexer.Position
	Text string `parser:"@(Ident | Number | String | '.' | '(' | ')' | '[' | ']' | '=' | '+' | '-' | '*' | '/' | ',' | Arrow | DblStar)+ ';'"`
}
