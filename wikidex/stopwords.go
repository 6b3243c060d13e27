package wikidex

import "sync"

// isStopWord is a fixed English stop-word list: common function words and
// a handful of unit/abbreviation tokens (cc, kg, mm, pmid, ...) that carry
// no discriminative weight in a wiki corpus. Checked by IsStopWord under a
// read lock since callers may query it concurrently from multiple indexer
// workers.
var isStopWord = map[string]bool{
	"a": true, "about": true, "above": true, "abs": true, "accordingly": true, "across": true, "after": true, "afterwards": true,
	"again": true, "against": true, "all": true, "almost": true, "alone": true, "along": true, "already": true, "also": true,
	"although": true, "always": true, "am": true, "among": true, "amongst": true, "an": true, "analyze": true, "and": true,
	"another": true, "any": true, "anyhow": true, "anyone": true, "anything": true, "anywhere": true, "applicable": true, "apply": true,
	"are": true, "arise": true, "around": true, "as": true, "assume": true, "at": true, "be": true, "became": true,
	"because": true, "become": true, "becomes": true, "becoming": true, "been": true, "before": true, "beforehand": true, "being": true,
	"below": true, "beside": true, "besides": true, "between": true, "beyond": true, "both": true, "but": true, "by": true,
	"came": true, "can": true, "cannot": true, "cc": true, "cm": true, "come": true, "compare": true, "could": true,
	"de": true, "dealing": true, "department": true, "depend": true, "did": true, "discover": true, "dl": true, "do": true,
	"does": true, "done": true, "due": true, "during": true, "each": true, "ec": true, "ed": true, "effected": true,
	"eg": true, "either": true, "else": true, "elsewhere": true, "enough": true, "especially": true, "et": true, "etc": true,
	"ever": true, "every": true, "everyone": true, "everything": true, "everywhere": true, "except": true, "find": true, "for": true,
	"found": true, "from": true, "further": true, "gave": true, "get": true, "give": true, "go": true, "gone": true,
	"got": true, "gov": true, "had": true, "has": true, "have": true, "having": true, "he": true, "hence": true,
	"her": true, "here": true, "hereafter": true, "hereby": true, "herein": true, "hereupon": true, "hers": true, "herself": true,
	"him": true, "himself": true, "his": true, "how": true, "however": true, "hr": true, "i": true, "ie": true,
	"if": true, "ii": true, "iii": true, "immediately": true, "importance": true, "important": true, "in": true, "inc": true,
	"incl": true, "indeed": true, "into": true, "investigate": true, "is": true, "it": true, "its": true, "itself": true,
	"just": true, "keep": true, "kept": true, "kg": true, "km": true, "last": true, "latter": true, "latterly": true,
	"lb": true, "ld": true, "letter": true, "like": true, "ltd": true, "made": true, "mainly": true, "make": true,
	"many": true, "may": true, "me": true, "meanwhile": true, "mg": true, "might": true, "ml": true, "mm": true,
	"mo": true, "more": true, "moreover": true, "most": true, "mostly": true, "mr": true, "much": true, "mug": true,
	"must": true, "my": true, "myself": true, "namely": true, "nearly": true, "necessarily": true, "neither": true, "never": true,
	"nevertheless": true, "next": true, "no": true, "nobody": true, "noone": true, "nor": true, "normally": true, "nos": true,
	"not": true, "noted": true, "nothing": true, "now": true, "nowhere": true, "obtained": true, "of": true, "off": true,
	"often": true, "on": true, "only": true, "onto": true, "or": true, "other": true, "others": true, "otherwise": true,
	"ought": true, "our": true, "ours": true, "ourselves": true, "out": true, "over": true, "overall": true, "owing": true,
	"own": true, "oz": true, "particularly": true, "per": true, "perhaps": true, "pm": true, "pmid": true, "precede": true,
	"predominantly": true, "present": true, "presently": true, "previously": true, "primarily": true, "promptly": true, "pt": true, "quickly": true,
	"quite": true, "quot": true, "rather": true, "readily": true, "really": true, "recently": true, "refs": true, "regarding": true,
	"relate": true, "said": true, "same": true, "seem": true, "seemed": true, "seeming": true, "seems": true, "seen": true,
	"seriously": true, "several": true, "shall": true, "she": true, "should": true, "show": true, "showed": true, "shown": true,
	"shows": true, "significantly": true, "since": true, "slightly": true, "so": true, "some": true, "somehow": true, "someone": true,
	"something": true, "sometime": true, "sometimes": true, "somewhat": true, "somewhere": true, "soon": true, "specifically": true, "still": true,
	"strongly": true, "studied": true, "studies": true, "study": true, "sub": true, "substantially": true, "such": true, "sufficiently": true,
	"take": true, "tell": true, "th": true, "than": true, "that": true, "the": true, "their": true, "theirs": true,
	"them": true, "themselves": true, "then": true, "thence": true, "there": true, "thereafter": true, "thereby": true, "therefore": true,
	"therein": true, "thereupon": true, "these": true, "they": true, "this": true, "thorough": true, "those": true, "though": true,
	"through": true, "throughout": true, "thru": true, "thus": true, "to": true, "together": true, "too": true, "toward": true,
	"towards": true, "try": true, "type": true, "ug": true, "under": true, "unless": true, "until": true, "up": true,
	"upon": true, "us": true, "use": true, "used": true, "usefully": true, "usefulness": true, "using": true, "usually": true,
	"various": true, "very": true, "via": true, "was": true, "we": true, "were": true, "what": true, "whatever": true,
	"when": true, "whence": true, "whenever": true, "where": true, "whereafter": true, "whereas": true, "whereby": true, "wherein": true,
	"whereupon": true, "wherever": true, "whether": true, "which": true, "while": true, "whither": true, "who": true, "whoever": true,
	"whom": true, "whose": true, "why": true, "will": true, "with": true, "within": true, "without": true, "wk": true,
	"would": true, "wt": true, "yet": true, "you": true, "your": true, "yours": true, "yourself": true, "yourselves": true,
	"yr": true,
}

var stopWordLock sync.RWMutex

// IsStopWord reports whether str (already lower-cased) is in the fixed
// stop-word list.
func IsStopWord(str string) bool {
	stopWordLock.RLock()
	defer stopWordLock.RUnlock()
	return isStopWord[str]
}
