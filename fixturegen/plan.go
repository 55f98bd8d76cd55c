package fixturegen

// StatementKind tells what a planned statement does.
type StatementKind string

const (
	DropStatement   StatementKind = "drop"
	CreateStatement StatementKind = "create"
	InsertStatement StatementKind = "insert"
)

// Statement is one planned SQL statement.
type Statement struct {
	Kind StatementKind
	SQL  string
	// Row is the index into the table's data (the header is data[0]) for
	// inserts, and 0 otherwise.
	Row int
}

// TablePlan holds the inferred schema and the statements for one table.
type TablePlan struct {
	Name       string
	Columns    []Column
	Statements []Statement
}

// Plan is every statement of a run, rendered before anything is executed.
type Plan struct {
	Query  string
	Tables []TablePlan
}

// BuildPlan synthesizes every table's schema and renders every statement.
// Unsupported values in any table are reported before a database is touched.
func BuildPlan(config *Config, builder StatementBuilder) (*Plan, error) {
	plan := &Plan{
		Query:  config.Query,
		Tables: make([]TablePlan, 0, len(config.Tables)),
	}

	for _, table := range config.Tables {
		columns, err := SynthesizeSchema(table)
		if err != nil {
			return nil, err
		}

		tp := TablePlan{
			Name:    table.Name,
			Columns: columns,
			Statements: []Statement{
				{Kind: DropStatement, SQL: builder.DropTable(table.Name)},
				{Kind: CreateStatement, SQL: builder.CreateTable(table.Name, columns)},
			},
		}

		for i := range table.Rows {
			insert, err := builder.Insert(table, i)
			if err != nil {
				return nil, err
			}

			tp.Statements = append(tp.Statements, Statement{Kind: InsertStatement, SQL: insert, Row: i + 1})
		}

		plan.Tables = append(plan.Tables, tp)
	}

	return plan, nil
}

// Statements returns every table statement in execution order, followed by the query.
func (p *Plan) Statements() []string {
	var out []string

	for _, t := range p.Tables {
		for _, s := range t.Statements {
			out = append(out, s.SQL)
		}
	}

	return append(out, p.Query)
}
