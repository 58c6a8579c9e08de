package transaction

// Static suggestion lists for the entry forms. Users may type anything;
// nothing here is enforced at write time.
var (
	incomeCategories = []string{
		"Salary",
		"Freelance",
		"Gift",
		"Investment",
	}

	expenseCategories = []string{
		"Food",
		"Transport",
		"Rent",
		"Entertainment",
		"Utilities",
		"Other",
	}
)

func SuggestedCategories(ttype string) []string {
	var src []string

	if ttype == TypeIncome {
		src = incomeCategories
	} else {
		src = expenseCategories
	}

	out := make([]string, len(src))
	copy(out, src)

	return out
}
