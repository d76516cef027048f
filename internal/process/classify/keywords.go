package classify

// DefaultCategories returns the stock keyword table. Keyword lists mix
// English and Telugu so one table covers both article languages.
func DefaultCategories() []Category {
	return []Category{
		{
			Name: "politics",
			Keywords: []string{
				"government", "minister", "election", "parliament", "politics", "leader",
				"democracy", "bill", "law", "state", "party", "vote", "campaign", "assembly",
				"ప్రభుత్వం", "మంత్రి", "ఎన్నికలు", "పార్లమెంట్", "రాజకీయాలు", "నాయకుడు",
				"ప్రజాస్వామ్యం", "బిల్లు", "చట్టం", "రాష్ట్రం", "పార్టీ", "ఓటు", "ప్రచారం", "అసెంబ్లీ",
			},
		},
		{
			Name: "business",
			Keywords: []string{
				"business", "market", "stock", "finance", "economy", "company", "industry",
				"investment", "trade", "growth", "sensex", "nifty", "shares", "rupee", "dollar",
				"వ్యాపారం", "మార్కెట్", "స్టాక్", "ఆర్థిక", "ఆర్థిక వ్యవస్థ", "కంపెనీ", "పరిశ్రమ",
				"పెట్టుబడి", "వాణిజ్యం", "వృద్ధి", "సెన్సెక్స్", "నిఫ్టీ", "షేర్లు", "రూపాయి", "డాలర్",
			},
		},
		{
			Name: "sports",
			Keywords: []string{
				"cricket", "football", "tennis", "match", "tournament", "sports", "athlete",
				"olympics", "medal", "score", "victory", "team", "player", "league", "champion",
				"క్రికెట్", "ఫుట్‌బాల్", "టెన్నిస్", "మ్యాచ్", "టోర్నమెంట్", "క్రీడలు", "అథ్లెట్",
				"ఒలింపిక్స్", "పతకం", "స్కోరు", "విజయం", "జట్టు", "ఆటగాడు", "ఛాంపియన్",
			},
		},
		{
			Name: "technology",
			Keywords: []string{
				"tech", "ai", "software", "app", "startup", "technology", "internet", "data",
				"device", "cloud", "gadget", "innovation", "digital", "phone", "laptop",
				"టెక్", "ఏఐ", "సాఫ్ట్‌వేర్", "యాప్", "స్టార్టప్", "సాంకేతికత", "ఇంటర్నెట్",
				"డేటా", "పరికరం", "క్లౌడ్", "గాడ్జెట్", "ఆవిష్కరణ", "డిజిటల్", "ఫోన్",
			},
		},
		{
			Name: "crime",
			Keywords: []string{
				"crime", "police", "arrest", "theft", "investigation", "case", "court",
				"accused", "suspect", "murder", "robbery", "fraud", "jailed",
				"నేరం", "పోలీస్", "అరెస్ట్", "దొంగతనం", "విచారణ", "కేసు", "కోర్టు",
				"నిందితుడు", "హత్య", "దోపిడీ", "మోసం", "జైలు",
			},
		},
		{
			Name: "entertainment",
			Keywords: []string{
				"entertainment", "cinema", "movie", "film", "review", "release", "box office",
				"celebrity", "hollywood", "bollywood", "tollywood", "kollywood", "mollywood",
				"chiranjeevi", "చిరంజీవి", "balakrishna", "బాలకృష్ణ", "nagarjuna", "నాగార్జున",
				"pawan kalyan", "పవన్ కళ్యాణ్", "mahesh babu", "మహేష్ బాబు", "prabhas", "ప్రభాస్",
				"allu arjun", "అల్లు అర్జున్", "ram charan", "రామ్ చరణ్", "vijay devarakonda",
				"samantha", "సమంత", "rashmika mandanna", "రష్మిక మందన్న",
				"shah rukh khan", "salman khan", "amitabh bachchan", "deepika padukone",
				"rajinikanth", "రజనీకాంత్", "kamal haasan", "కమల్ హాసన్", "suriya", "సూర్య",
				"mohanlal", "మోహన్ లాల్", "mammootty", "మమ్ముట్టి",
				"web series", "streaming", "ott", "netflix", "amazon prime", "hotstar",
				"aha", "zee5", "series", "episode", "season",
			},
		},
		{
			Name: "international",
			Keywords: []string{
				"world", "international", "global", "summit", "treaty", "war", "conflict",
				"diplomacy", "foreign policy", "united nations",
				"ప్రపంచ", "అంతర్జాతీయ", "గ్లోబల్", "సమ్మిట్", "ఒప్పందం", "యుద్ధం", "సంఘర్షణ",
				"దౌత్యం", "ఐక్యరాజ్యసమితి",
				"america", "usa", "united states", "అమెరికా", "china", "చైనా", "russia", "రష్యా",
				"united kingdom", "బ్రిటన్", "japan", "జపాన్", "germany", "france", "canada",
				"australia", "pakistan", "పాకిస్తాన్", "sri lanka", "శ్రీలంక", "bangladesh",
				"ukraine", "ఉక్రెయిన్", "israel", "ఇజ్రాయెల్", "palestine", "పాలస్తీనా",
				"washington", "new york", "beijing", "moscow", "london", "tokyo", "paris",
				"dubai", "islamabad", "colombo", "dhaka", "kyiv",
			},
		},
	}
}
