package classifier

// Keyword tables per call-site. They differ on purpose: SMS merchant tokens
// are short brand names, statement narrations and free text carry more
// vocabulary. Keep them separate so a change to one extractor never shifts
// another extractor's categories.

// SMS is the single-keyword table applied to merchants isolated from SMS alerts.
var SMS = Ruleset{
	{Keywords: []string{"zomato"}, Category: "Food"},
	{Keywords: []string{"swiggy"}, Category: "Food"},
	{Keywords: []string{"uber"}, Category: "Travel"},
	{Keywords: []string{"ola"}, Category: "Travel"},
	{Keywords: []string{"rapido"}, Category: "Travel"},
	{Keywords: []string{"amazon"}, Category: "Shopping"},
	{Keywords: []string{"flipkart"}, Category: "Shopping"},
	{Keywords: []string{"jio"}, Category: "Bills"},
	{Keywords: []string{"airtel"}, Category: "Bills"},
	{Keywords: []string{"netflix"}, Category: "Entertainment"},
}

// Statement is applied to bank statement narrations.
// Shopping precedes Bills so that "ajio" is not read as "jio".
var Statement = Ruleset{
	{Keywords: []string{"zomato", "swiggy", "restaurant", "cafe", "dominos", "pizza", "mcdonald", "kfc", "starbucks", "food"}, Category: "Food"},
	{Keywords: []string{"uber", "ola", "rapido", "irctc", "redbus", "makemytrip", "petrol", "fuel", "fastag"}, Category: "Travel"},
	{Keywords: []string{"amazon", "flipkart", "myntra", "ajio", "meesho", "bigbasket", "blinkit", "dmart", "shopping"}, Category: "Shopping"},
	{Keywords: []string{"jio", "airtel", "vodafone", "bsnl", "electricity", "kseb", "broadband", "recharge", "water bill", "gas bill", "bill"}, Category: "Bills"},
	{Keywords: []string{"netflix", "spotify", "hotstar", "prime video", "bookmyshow"}, Category: "Entertainment"},
	{Keywords: []string{"pharmacy", "apollo", "medplus", "hospital", "clinic"}, Category: "Health"},
	{Keywords: []string{"house rent", "rent paid", "rental"}, Category: "Rent"},
	{Keywords: []string{"school", "college", "tuition"}, Category: "Education"},
	{Keywords: []string{"atm wdl", "atm cash", "cash wdl"}, Category: "Cash"},
}

// Quick is applied to the words left over from a quick-add phrase.
// Short keywords that hide inside ordinary words ("instead", "business",
// "parent") are matched as whole words only.
var Quick = Ruleset{
	{Keywords: []string{"coffee", "chai", "lunch", "dinner", "breakfast", "snack", "food", "pizza", "burger", "restaurant", "zomato", "swiggy"}, Category: "Food"},
	{Keywords: []string{"tea"}, Category: "Food", WholeWord: true},
	{Keywords: []string{"grocer", "vegetable", "fruit", "shopping", "clothes", "shoes", "amazon", "flipkart"}, Category: "Shopping"},
	{Keywords: []string{"uber", "rapido", "taxi", "train", "metro", "flight", "fuel", "petrol"}, Category: "Travel"},
	{Keywords: []string{"cab", "auto", "bus"}, Category: "Travel", WholeWord: true},
	{Keywords: []string{"electricity", "bill", "recharge", "internet", "wifi"}, Category: "Bills"},
	{Keywords: []string{"rent"}, Category: "Bills", WholeWord: true},
	{Keywords: []string{"movie", "netflix", "spotify", "bookmyshow", "concert", "game"}, Category: "Entertainment"},
	{Keywords: []string{"medicine", "doctor", "pharmacy", "hospital", "gym"}, Category: "Health"},
	{Keywords: []string{"book", "course", "tuition"}, Category: "Education"},
}

// IncomeMarkers flag statement deposits that are salary or transfer credits.
var IncomeMarkers = Rule{
	Keywords: []string{"salary", "neft cr", "imps cr", "rtgs cr", "by transfer"},
	Category: IncomeCategory,
}

// SalaryKeyword flips a quick-add phrase to income.
const SalaryKeyword = "salary"
