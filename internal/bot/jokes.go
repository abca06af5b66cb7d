package bot

// jokes is a small embedded stand-in for a joke service.
var jokes = []string{
	"There are 10 types of people: those who understand binary and those who don't.",
	"Why do programmers prefer dark mode? Because light attracts bugs.",
	"A SQL query walks into a bar, walks up to two tables and asks, 'Can I join you?'",
	"I would tell you a UDP joke, but you might not get it.",
	"Why do Java developers wear glasses? Because they don't C#.",
	"How many programmers does it take to change a light bulb? None, that's a hardware problem.",
	"A programmer's wife says: 'Buy a loaf of bread. If they have eggs, buy a dozen.' He comes home with twelve loaves.",
	"There are two hard things in computer science: cache invalidation, naming things, and off-by-one errors.",
	"!false, it's funny because it's true.",
	"Why did the developer go broke? Because he used up all his cache.",
}
