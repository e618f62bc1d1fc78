package game

// nouns is the vocabulary pool boards are drawn from. Kept to common,
// unambiguous words so clues stay guessable.
var nouns = []string{
	"anchor", "angel", "apple", "arrow", "badge", "balloon", "banana",
	"bank", "barrel", "basket", "beach", "bear", "bell", "belt", "bench",
	"berry", "bicycle", "bird", "blanket", "board", "boat", "bone", "book",
	"boot", "bottle", "box", "branch", "bread", "bridge", "brush", "bucket",
	"butter", "button", "cabin", "cactus", "camel", "camera", "candle",
	"canyon", "castle", "cave", "chain", "chair", "cheese", "cherry",
	"church", "circle", "cloud", "clover", "coast", "coin", "comet",
	"compass", "copper", "coral", "corn", "cotton", "crane", "cricket",
	"crown", "crystal", "curtain", "dentist", "desert", "diamond", "doctor",
	"dolphin", "dragon", "drum", "duck", "eagle", "engine", "falcon",
	"feather", "fence", "field", "finger", "flag", "flute", "forest",
	"fountain", "fox", "frame", "garden", "ghost", "giant", "glacier",
	"glass", "glove", "guitar", "hammer", "harbor", "hawk", "heart",
	"helmet", "honey", "hook", "horn", "horse", "hotel", "iceberg",
	"island", "ivory", "jacket", "jewel", "judge", "jungle", "kettle",
	"key", "kite", "knight", "ladder", "lantern", "laser", "leaf",
	"lemon", "letter", "library", "lion", "lizard", "lock", "magnet",
	"mammoth", "map", "marble", "mask", "meadow", "mirror", "monkey",
	"moon", "mountain", "mouse", "mushroom", "needle", "nest", "net",
	"ocean", "octopus", "olive", "onion", "orange", "orbit", "organ",
	"owl", "palace", "palm", "paper", "parade", "parrot", "pearl",
	"pepper", "piano", "pillow", "pilot", "pirate", "planet", "plate",
	"pocket", "poison", "pond", "pyramid", "queen", "rabbit", "rainbow",
	"ribbon", "ring", "river", "robot", "rocket", "rope", "rose",
	"saddle", "sailor", "salt", "scale", "school", "scorpion", "shadow",
	"shark", "shell", "shield", "ship", "shoe", "silver", "sleigh",
	"snake", "spider", "sponge", "spoon", "spring", "spy", "stadium",
	"star", "statue", "stone", "storm", "straw", "string", "sugar",
	"sun", "sword", "table", "tail", "teacher", "telescope", "temple",
	"tent", "theater", "thread", "thumb", "tiger", "tooth", "torch",
	"tower", "train", "triangle", "trumpet", "tunnel", "turtle", "umbrella",
	"unicorn", "valley", "violin", "volcano", "wagon", "wall", "walrus",
	"watch", "water", "whale", "wheel", "whistle", "window", "wing",
	"witch", "wolf", "worm", "yarn", "zebra",
}
